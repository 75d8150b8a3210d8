// pipeline.go
package fenceview

import "context"

// Renderer displays a markup string.
type Renderer interface {
	Render(ctx context.Context, markup string) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, markup string) error

func (f RendererFunc) Render(ctx context.Context, markup string) error {
	return f(ctx, markup)
}

// Deliver hands a chosen selection to r. An empty selection is dropped.
func Deliver(ctx context.Context, sel Selection, r Renderer) error {
	if !sel.Chosen {
		return nil
	}
	return r.Render(ctx, sel.Content)
}

// Run extracts the blocks in text, selects one and renders it.
// Finding nothing and a dismissed chooser both end quietly with a nil error.
func Run(ctx context.Context, text string, ex *Extractor, chooser Chooser, r Renderer) error {
	if ex == nil {
		ex = defaultExtractor
	}
	return RunBlocks(ctx, ex.Extract(text), chooser, r)
}

// RunBlocks is Run for blocks the caller has already extracted, for callers
// that need to look at the blocks before choosing (previews, bounds checks).
func RunBlocks(ctx context.Context, blocks Blocks, chooser Chooser, r Renderer) error {
	sel, err := Select(ctx, blocks, chooser)
	if err != nil {
		return err
	}
	return Deliver(ctx, sel, r)
}
