package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/pterm/pterm"
)

// outBuf collects pterm output while setupStdoutCapture is active.
var outBuf bytes.Buffer

func setupStdoutCapture(t *testing.T) {
	t.Helper()
	outBuf.Reset()
	pterm.SetDefaultOutput(&outBuf)
	pterm.DisableStyling()
	t.Cleanup(func() {
		pterm.SetDefaultOutput(os.Stdout)
		pterm.EnableStyling()
	})
}

// captureStdout redirects os.Stdout for output printed with fmt. The
// returned function restores it and returns what was written.
func captureStdout(t *testing.T) func() string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	t.Cleanup(func() {
		os.Stdout = oldStdout
	})

	return func() string {
		w.Close()
		os.Stdout = oldStdout
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		return buf.String()
	}
}
