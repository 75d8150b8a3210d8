// select.go
package fenceview

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// ErrUnknownLabel is returned when a chooser answers with a label it was
// not offered.
var ErrUnknownLabel = errors.New("chooser returned a label that was not offered")

// Chooser presents labels to the user and returns the one picked.
// ok is false when the user dismissed the choice; that is not an error.
type Chooser interface {
	Present(ctx context.Context, labels []string) (label string, ok bool, err error)
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(ctx context.Context, labels []string) (string, bool, error)

func (f ChooserFunc) Present(ctx context.Context, labels []string) (string, bool, error) {
	return f(ctx, labels)
}

// Selection is the outcome of Select: either nothing, or one block's content.
type Selection struct {
	Content string
	Chosen  bool
}

// None is the empty selection.
func None() Selection {
	return Selection{}
}

// Chosen wraps content as a selection.
func Chosen(content string) Selection {
	return Selection{Content: content, Chosen: true}
}

// Labels returns "1" through "n".
func Labels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	return labels
}

// Select picks one block. Zero blocks select nothing and one block is
// taken as is; only with two or more is the chooser consulted.
func Select(ctx context.Context, blocks Blocks, chooser Chooser) (Selection, error) {
	switch len(blocks) {
	case 0:
		return None(), nil
	case 1:
		return Chosen(blocks[0].Content), nil
	}

	label, ok, err := chooser.Present(ctx, Labels(len(blocks)))
	if err != nil {
		return None(), fmt.Errorf("choose block: %w", err)
	}
	if !ok {
		return None(), nil
	}

	n, err := strconv.Atoi(label)
	if err != nil || n < 1 || n > len(blocks) {
		return None(), fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return Chosen(blocks[n-1].Content), nil
}
