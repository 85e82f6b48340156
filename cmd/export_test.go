package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bizbotng/bizchat/testutil"
)

func TestExportCommand_WritesMarkdown(t *testing.T) {
	backend := testutil.NewBackendStub(t)
	backend.SeedHistory("sess-7", "What taxes apply?", "FIRS levies company income tax.")

	outDir := t.TempDir()
	t.Setenv("BIZCHAT_API_URL", backend.URL())
	t.Setenv("BIZCHAT_STORAGE", filepath.Join(t.TempDir(), "bizchat.db"))

	rootCmd.SetArgs([]string{"export", "sess-7", "--format", "md", "--output", outDir})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "sess-7.md"))
	if err != nil {
		t.Fatalf("Expected export file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "What taxes apply?") {
		t.Error("Export missing user message")
	}
	if !strings.Contains(out, "FIRS levies company income tax.") {
		t.Error("Export missing assistant message")
	}
}

func TestExportCommand_UnknownFormat(t *testing.T) {
	backend := testutil.NewBackendStub(t)

	if err := runCommand(t, backend.URL(), "export", "sess-1", "--format", "pdf"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestShowCommand_ReplaysHistory(t *testing.T) {
	backend := testutil.NewBackendStub(t)
	backend.SeedHistory("sess-8", "old question", "old answer")

	if err := runCommand(t, backend.URL(), "show", "sess-8"); err != nil {
		t.Errorf("show failed: %v", err)
	}
}
