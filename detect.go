// detect.go
package fenceview

import (
	"regexp"
	"strings"
)

// DefaultTag is the fence tag extracted when none is configured.
const DefaultTag = "html"

const fence = "```"

// space is the whitespace allowed between the tag and the line break. It is
// wider than RE2's \s: \v, Unicode space separators (NBSP and friends),
// U+2028/U+2029 and the BOM count too.
const space = `[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]`

// Block is the inner content of one fenced region.
type Block struct {
	Content string
	// Line is the 1-based line of the opening fence.
	Line int
}

// Blocks is an ordered sequence of blocks, in source order.
type Blocks []Block

// Extractor finds fenced regions for a single tag.
type Extractor struct {
	tag string
	re  *regexp.Regexp
}

// NewExtractor returns an Extractor for ```tag fences. The tag is matched
// case-insensitively; an empty tag means DefaultTag.
func NewExtractor(tag string) *Extractor {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		tag = DefaultTag
	}
	// Opening fence, optional trailing whitespace, line break, then the
	// shortest run up to the next bare fence.
	pattern := `(?is)` + fence + regexp.QuoteMeta(tag) + space + `*\n(.*?)` + fence
	return &Extractor{
		tag: tag,
		re:  regexp.MustCompile(pattern),
	}
}

// Tag returns the fence tag this extractor matches.
func (e *Extractor) Tag() string {
	return e.tag
}

// Extract returns every complete fenced region in text. A fence that is
// never closed contributes nothing.
func (e *Extractor) Extract(text string) Blocks {
	matches := e.re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	blocks := make(Blocks, 0, len(matches))
	line, scanned := 1, 0
	for _, m := range matches {
		line += strings.Count(text[scanned:m[0]], "\n")
		scanned = m[0]
		blocks = append(blocks, Block{
			Content: text[m[2]:m[3]],
			Line:    line,
		})
	}
	return blocks
}

var defaultExtractor = NewExtractor(DefaultTag)

// Extract returns the ```html blocks in text.
func Extract(text string) Blocks {
	return defaultExtractor.Extract(text)
}
