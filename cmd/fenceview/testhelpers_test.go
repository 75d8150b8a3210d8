// testhelpers_test.go
package main

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/mordant23/fenceview"
)

// mockClipboard implements ClipboardWriter for testing.
type mockClipboard struct {
	written string
	err     error
}

func (m *mockClipboard) Write(text string) error {
	if m.err != nil {
		return m.err
	}
	m.written = text
	return nil
}

// mockRenderer records what the screenshot renderer was given.
type mockRenderer struct {
	rendered []string
	err      error
}

func (m *mockRenderer) Render(ctx context.Context, markup string) error {
	m.rendered = append(m.rendered, markup)
	return m.err
}

// testOption configures a test Deps.
type testOption func(*Deps)

// newTestDeps creates Deps with mocks for testing.
func newTestDeps(opts ...testOption) *Deps {
	clip := &mockClipboard{}
	shot := &mockRenderer{}
	d := &Deps{
		Stdin:      strings.NewReader(""),
		Stdout:     &bytes.Buffer{},
		Stderr:     &bytes.Buffer{},
		Clipboard:  func(*Config) ClipboardWriter { return clip },
		Open:       func(*Config) func(string) error { return func(string) error { return nil } },
		Screenshot: func(*Config) fenceview.Renderer { return shot },
		IsTTY:      func() bool { return true },
		TermWidth:  func() int { return 80 },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func withStdin(input string) testOption {
	return func(d *Deps) {
		d.Stdin = strings.NewReader(input)
	}
}

func withTTY(tty bool) testOption {
	return func(d *Deps) {
		d.IsTTY = func() bool { return tty }
	}
}

func withClipboard(c ClipboardWriter) testOption {
	return func(d *Deps) {
		d.Clipboard = func(*Config) ClipboardWriter { return c }
	}
}

func withScreenshot(r fenceview.Renderer) testOption {
	return func(d *Deps) {
		d.Screenshot = func(*Config) fenceview.Renderer { return r }
	}
}

func withOpener(open func(string) error) testOption {
	return func(d *Deps) {
		d.Open = func(*Config) func(string) error { return open }
	}
}

// stdout returns the captured stdout as string.
func stdout(d *Deps) string {
	return d.Stdout.(*bytes.Buffer).String()
}

// stderr returns the captured stderr as string.
func stderr(d *Deps) string {
	return d.Stderr.(*bytes.Buffer).String()
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
