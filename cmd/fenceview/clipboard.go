// clipboard.go
package main

import (
	"errors"
	"os/exec"
	"strings"
)

var errNoClipboard = errors.New("no clipboard command available")

// ClipboardWriter abstracts clipboard operations for testing.
type ClipboardWriter interface {
	Write(text string) error
}

// clipboardCmd adapts a command line to ClipboardWriter.
type clipboardCmd struct {
	cmd string
}

func (c *clipboardCmd) Write(text string) error {
	if c.cmd == "" {
		return errNoClipboard
	}
	return CopyToClipboard(text, c.cmd)
}

// NewClipboardWriter creates a ClipboardWriter from a command string.
func NewClipboardWriter(cmd string) ClipboardWriter {
	return &clipboardCmd{cmd: cmd}
}

// DetectClipboardCmd returns the clipboard command to use.
func DetectClipboardCmd(override string) string {
	return detectCmd(override, []string{
		"wl-copy",
		"xclip -selection clipboard",
		"xsel --clipboard --input",
		"pbcopy",
	})
}

// CopyToClipboard pipes text into the given command.
func CopyToClipboard(text string, cmd string) error {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return errNoClipboard
	}
	c := exec.Command(parts[0], parts[1:]...)
	c.Stdin = strings.NewReader(text)
	return c.Run()
}

// detectCmd returns override if set, else the first candidate whose binary
// is on PATH, else "".
func detectCmd(override string, candidates []string) string {
	if override != "" {
		return override
	}

	for _, cmd := range candidates {
		parts := strings.Fields(cmd)
		if _, err := exec.LookPath(parts[0]); err == nil {
			return cmd
		}
	}

	return ""
}
