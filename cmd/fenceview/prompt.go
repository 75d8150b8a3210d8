// prompt.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/mordant23/fenceview"
)

const defaultWidth = 80

// PromptChooser asks on a terminal which block to use. A read abandoned by
// a cancelled context stays pending and answers the next Present, so the
// underlying reader is never read from two goroutines.
type PromptChooser struct {
	reader   *bufio.Reader
	pending  chan lineResult
	out      io.Writer
	title    string
	message  string
	previews []string
}

// NewPromptChooser builds a chooser that lists one preview line per block.
// width bounds each preview; zero or less means 80 columns.
func NewPromptChooser(in io.Reader, out io.Writer, cfg *Config, blocks fenceview.Blocks, width int) *PromptChooser {
	if width <= 0 {
		width = defaultWidth
	}
	previews := make([]string, len(blocks))
	for i, b := range blocks {
		previews[i] = previewLine(b, i+1, width)
	}
	return &PromptChooser{
		reader:   bufio.NewReader(in),
		out:      out,
		title:    cfg.PromptTitle,
		message:  cfg.PromptMessage,
		previews: previews,
	}
}

func (c *PromptChooser) Present(ctx context.Context, labels []string) (string, bool, error) {
	if c.title != "" {
		fmt.Fprintln(c.out, c.title)
	}
	if c.message != "" {
		fmt.Fprintln(c.out, c.message)
	}
	for i, label := range labels {
		if i < len(c.previews) {
			fmt.Fprintf(c.out, "  %s\n", c.previews[i])
		} else {
			fmt.Fprintf(c.out, "  %s)\n", label)
		}
	}

	for {
		fmt.Fprintf(c.out, "Choice [%s-%s, q to cancel]: ", labels[0], labels[len(labels)-1])
		input, eof, err := c.readLine(ctx)
		if err != nil {
			return "", false, err
		}

		input = strings.TrimSpace(input)
		if isCancel(input) {
			if eof {
				fmt.Fprintln(c.out)
			}
			return "", false, nil
		}
		for _, label := range labels {
			if input == label {
				return label, true, nil
			}
		}
		if eof {
			fmt.Fprintln(c.out)
			return "", false, nil
		}
		fmt.Fprintf(c.out, "Invalid choice: %s\n", input)
	}
}

type lineResult struct {
	line string
	err  error
}

// readLine reads one line, giving up when ctx ends.
func (c *PromptChooser) readLine(ctx context.Context) (line string, eof bool, err error) {
	if c.pending == nil {
		ch := make(chan lineResult, 1)
		go func() {
			line, err := c.reader.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
		c.pending = ch
	}

	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case res := <-c.pending:
		c.pending = nil
		if res.err == io.EOF {
			return res.line, true, nil
		}
		if res.err != nil {
			return "", false, fmt.Errorf("failed to read choice: %w", res.err)
		}
		return res.line, false, nil
	}
}

// isCancel reports whether input dismisses the prompt.
func isCancel(input string) bool {
	switch parseCommand(input) {
	case "", "q", "quit", "exit", "bye":
		return true
	}
	return false
}

// parseCommand lowercases input and strips an optional leading slash.
func parseCommand(input string) string {
	trimmed := strings.TrimSpace(input)
	cmd := strings.TrimPrefix(trimmed, "/")
	return strings.ToLower(cmd)
}

// previewLine renders "n) first line  (line L)" clipped to width.
func previewLine(b fenceview.Block, n int, width int) string {
	first := ""
	for _, l := range strings.Split(b.Content, "\n") {
		if s := strings.TrimSpace(l); s != "" {
			first = s
			break
		}
	}
	if first == "" {
		first = "(empty)"
	}

	prefix := strconv.Itoa(n) + ") "
	suffix := fmt.Sprintf("  (line %d)", b.Line)
	room := width - 2 - len(prefix) - len(suffix)
	return prefix + truncate(first, room) + suffix
}

// truncate clips s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n < 1 {
		n = 1
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// termWidth measures stderr, where the prompt is drawn, so piping stdout
// does not shrink the previews.
func termWidth() int {
	return widthOf(os.Stderr)
}

func widthOf(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// PickChooser answers with a label fixed up front (--pick).
type PickChooser struct {
	Pick int
}

func (p PickChooser) Present(ctx context.Context, labels []string) (string, bool, error) {
	label := strconv.Itoa(p.Pick)
	for _, l := range labels {
		if l == label {
			return label, true, nil
		}
	}
	return "", false, fmt.Errorf("%w: --pick %d out of range (1-%d)", errConfig, p.Pick, len(labels))
}

// NoTTYChooser fails: several blocks exist and nobody can be asked.
type NoTTYChooser struct {
	Tag string
}

func (n NoTTYChooser) Present(ctx context.Context, labels []string) (string, bool, error) {
	return "", false, fmt.Errorf("%w: %d %s blocks found but stdin is not a terminal; pass --pick N", errRender, len(labels), n.Tag)
}
