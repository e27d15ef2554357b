package md

import (
	"bytes"

	"github.com/goccy/go-yaml"
	"github.com/k1LoW/prez"
)

const fmSep = "---\n"

// splitFrontmatter peels an optional YAML frontmatter block off the deck
// source and returns it as the deck-wide settings plus the remaining body.
// A leading "---" section that is not frontmatter, a markdown page for
// example, stays in the body, so decks may open with a plain thematic break.
func splitFrontmatter(b []byte) (*prez.DeckFile, []byte, error) {
	df := &prez.DeckFile{}
	if !bytes.HasPrefix(b, []byte(fmSep)) {
		return df, b, nil
	}
	stuffs := bytes.SplitN(b, []byte(fmSep), 3)
	if len(stuffs) != 3 {
		return df, b, nil
	}
	// Markdown between two breaks often parses as valid but empty YAML, a
	// "# heading" is a YAML comment. Only a non-empty mapping with known
	// keys counts as frontmatter.
	var fm map[string]any
	if err := yaml.Unmarshal(stuffs[1], &fm); err != nil || len(fm) == 0 {
		return df, b, nil
	}
	if err := yaml.UnmarshalWithOptions(stuffs[1], df, yaml.Strict()); err != nil {
		return &prez.DeckFile{}, b, nil
	}
	df.Slides = nil
	return df, stuffs[2], nil
}
