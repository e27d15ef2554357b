// Package md parses markdown deck sources into slide specs. Slides are
// separated by thematic breaks; headings, lists, images and blockquotes map
// onto the spec fields, and an HTML comment carrying JSON overrides the
// guessed slide type.
package md

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/k1LoW/errors"
	"github.com/k1LoW/prez"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Config is the per-slide override comment:
//
//	<!-- {"type": "highlight", "image": "figs/a.png", "hidden": true} -->
type Config struct {
	Type   string `json:"type,omitempty"`
	Image  string `json:"image,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
}

// ParseFile reads and parses a markdown deck file.
func ParseFile(f string) (_ *prez.DeckFile, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck file %s: %w", f, err)
	}
	df, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("failed to parse deck file %s: %w", f, err)
	}
	return df, nil
}

// Parse parses a markdown deck: optional YAML frontmatter with deck-wide
// settings, then slides separated by "---" thematic breaks.
func Parse(b []byte) (_ *prez.DeckFile, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	df, body, err := splitFrontmatter(b)
	if err != nil {
		return nil, err
	}
	bpages := bytes.Split(bytes.TrimPrefix(body, []byte("---\n")), []byte("\n---\n"))
	for i, bpage := range bpages {
		spec, err := parsePage(i, bpage)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %d: %w", i, err)
		}
		df.Slides = append(df.Slides, spec)
	}
	if err := df.ExpandVars(); err != nil {
		return nil, err
	}
	return df, nil
}

func parsePage(index int, b []byte) (*prez.SlideSpec, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(b))
	spec := &prez.SlideSpec{}
	var (
		cfg        *Config
		listDepth  int
		listCount  int
		quoteDepth int
		quoteLines []string
		images     []string
	)
	if err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch v := n.(type) {
		case *ast.Heading:
			if !entering {
				break
			}
			txt := flatten(b, v, &images)
			switch {
			case spec.Title == "":
				spec.Title = txt
			case spec.Subtitle == "":
				spec.Subtitle = txt
			default:
				spec.Content = append(spec.Content, prez.ContentItem{Text: txt})
			}
		case *ast.List:
			if quoteDepth > 0 {
				break
			}
			if entering {
				listDepth++
				if listDepth == 1 {
					listCount++
				}
			} else {
				listDepth--
			}
		case *ast.ListItem:
			if !entering || quoteDepth > 0 {
				break
			}
			item := prez.ContentItem{
				Text:  flatten(b, v.FirstChild(), &images),
				Level: listDepth - 1,
			}
			if listCount >= 2 {
				spec.Content2 = append(spec.Content2, item)
			} else {
				spec.Content = append(spec.Content, item)
			}
		case *ast.Blockquote:
			if entering {
				quoteDepth++
			} else {
				quoteDepth--
			}
		case *ast.Paragraph:
			if !entering || listDepth > 0 {
				break
			}
			txt := flatten(b, v, &images)
			if quoteDepth > 0 {
				if txt != "" {
					quoteLines = append(quoteLines, txt)
				}
				break
			}
			if txt != "" {
				spec.Content = append(spec.Content, prez.ContentItem{Text: txt})
			}
		case *ast.HTMLBlock:
			if !entering || v.HTMLBlockType != ast.HTMLBlockType2 {
				break
			}
			block := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(string(v.Lines().Value(b))), "<!--"), "-->"))
			c := &Config{}
			if err := json.Unmarshal([]byte(block), c); err == nil {
				cfg = c
			}
		}
		return ast.WalkContinue, nil
	}); err != nil {
		return nil, err
	}

	if len(images) > 0 {
		spec.Image = images[0]
	}
	if cfg != nil {
		if cfg.Type != "" {
			spec.Type = prez.SlideType(cfg.Type)
		}
		if cfg.Image != "" {
			spec.Image = cfg.Image
		}
		spec.Hidden = cfg.Hidden
	}
	if spec.Type == "" {
		spec.Type = inferType(index, spec, listCount, len(quoteLines) > 0)
	}
	if spec.Type == prez.TypeQuote && spec.Title == "" {
		spec.Title = strings.Join(quoteLines, "\n")
	}
	return spec, nil
}

// inferType guesses the slide type when the page carries no override
// comment.
func inferType(index int, spec *prez.SlideSpec, listCount int, quoted bool) prez.SlideType {
	switch {
	case quoted && listCount == 0 && spec.Image == "":
		return prez.TypeQuote
	case index == 0 && listCount == 0:
		return prez.TypeTitle
	case listCount >= 2:
		return prez.TypeTwoColumn
	case spec.Image != "" && listCount > 0:
		return prez.TypeTextImage
	case spec.Image != "":
		return prez.TypeSplit
	default:
		return prez.TypeContent
	}
}

// flatten renders a node's inline content as plain text, collecting image
// destinations on the way.
func flatten(src []byte, n ast.Node, images *[]string) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(src))
			if v.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.Image:
			*images = append(*images, string(v.Destination))
		case *ast.AutoLink:
			sb.Write(v.URL(src))
		case *ast.RawHTML:
			for i := 0; i < v.Segments.Len(); i++ {
				seg := v.Segments.At(i)
				sb.Write(seg.Value(src))
			}
		default:
			sb.WriteString(flatten(src, c, images))
		}
	}
	return convert(sb.String())
}

var convertRep = strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n")

func convert(in string) string {
	return strings.TrimSpace(convertRep.Replace(in))
}
