package main

import "github.com/bizbotng/bizchat/cmd"

func main() {
	cmd.Execute()
}
