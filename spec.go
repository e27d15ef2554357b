package prez

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/k1LoW/errors"
	"github.com/k1LoW/prez/template"
)

// SlideType selects the archetype or layout a slide is produced from.
type SlideType string

const (
	TypeTitle      SlideType = "title"
	TypeQuote      SlideType = "quote"
	TypeContent    SlideType = "content"
	TypeTwoColumn  SlideType = "two_column"
	TypeSplit      SlideType = "split"
	TypeHighlight  SlideType = "highlight"
	TypeTextImage  SlideType = "text_image"
	TypeConclusion SlideType = "conclusion"
)

var slideTypes = map[SlideType]struct{}{
	TypeTitle:      {},
	TypeQuote:      {},
	TypeContent:    {},
	TypeTwoColumn:  {},
	TypeSplit:      {},
	TypeHighlight:  {},
	TypeTextImage:  {},
	TypeConclusion: {},
}

type Specs []*SlideSpec

// SlideSpec describes one slide to generate. Which fields apply depends on
// Type; unused fields are ignored by the renderer but rejected when parsing
// strict deck files.
type SlideSpec struct {
	Type     SlideType     `yaml:"type" json:"type"`
	Title    string        `yaml:"title,omitempty" json:"title,omitempty"`
	Subtitle string        `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
	Content  []ContentItem `yaml:"content,omitempty" json:"content,omitempty"`
	Content2 []ContentItem `yaml:"content2,omitempty" json:"content2,omitempty"`
	Image    string        `yaml:"image,omitempty" json:"image,omitempty"`
	Hidden   bool          `yaml:"hidden,omitempty" json:"hidden,omitempty"`
}

// ContentItem is one bullet entry: text plus a nesting level. In YAML it is
// either a scalar string (level 0) or a [text, level] pair.
type ContentItem struct {
	Text  string
	Level int
}

// UnmarshalYAML accepts a scalar string or a two-element [text, level]
// sequence. Negative levels are rejected.
func (c *ContentItem) UnmarshalYAML(b []byte) error {
	var s string
	if err := yaml.Unmarshal(b, &s); err == nil {
		c.Text = s
		c.Level = 0
		return nil
	}
	var pair []any
	if err := yaml.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("content entry must be a string or a [text, level] pair: %s", strings.TrimSpace(string(b)))
	}
	if len(pair) != 2 {
		return fmt.Errorf("content entry must have exactly [text, level], got %d elements", len(pair))
	}
	text, ok := pair[0].(string)
	if !ok {
		return fmt.Errorf("content entry text must be a string, got %T", pair[0])
	}
	level, ok := toInt(pair[1])
	if !ok {
		return fmt.Errorf("content entry level must be an integer, got %T", pair[1])
	}
	if level < 0 {
		return fmt.Errorf("content entry level must be non-negative, got %d", level)
	}
	c.Text = text
	c.Level = level
	return nil
}

// MarshalYAML writes level-0 entries back as plain scalars.
func (c ContentItem) MarshalYAML() ([]byte, error) {
	if c.Level == 0 {
		return yaml.Marshal(c.Text)
	}
	return yaml.Marshal([]any{c.Text, c.Level})
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// Validate checks every spec and returns an InvalidSpecError for the first
// offending slide.
func (s Specs) Validate() error {
	for i, spec := range s {
		if err := spec.validate(i); err != nil {
			return err
		}
	}
	return nil
}

func (s *SlideSpec) validate(index int) error {
	if s == nil {
		return &InvalidSpecError{Index: index, Reason: "spec is empty"}
	}
	if _, ok := slideTypes[s.Type]; !ok {
		return &InvalidSpecError{Index: index, Type: s.Type, Reason: "unknown type"}
	}
	switch s.Type {
	case TypeTitle, TypeQuote:
		if s.Title == "" {
			return &InvalidSpecError{Index: index, Type: s.Type, Reason: "missing required field: title"}
		}
	}
	for _, item := range append(append([]ContentItem{}, s.Content...), s.Content2...) {
		if item.Level < 0 {
			return &InvalidSpecError{Index: index, Type: s.Type, Reason: fmt.Sprintf("negative nesting level %d", item.Level)}
		}
	}
	return nil
}

// imageRefs returns the unique image paths and URLs the specs reference, in
// first-appearance order.
func (s Specs) imageRefs() []string {
	var refs []string
	seen := map[string]struct{}{}
	for _, spec := range s {
		if spec == nil || spec.Image == "" {
			continue
		}
		if _, ok := seen[spec.Image]; ok {
			continue
		}
		seen[spec.Image] = struct{}{}
		refs = append(refs, spec.Image)
	}
	return refs
}

// DeckFile is a YAML deck source: the slide specs plus deck-wide settings.
type DeckFile struct {
	Template string         `yaml:"template,omitempty"`
	Base     string         `yaml:"base,omitempty"`
	Version  *int           `yaml:"version,omitempty"`
	Numbers  bool           `yaml:"numbers,omitempty"`
	Vars     map[string]any `yaml:"vars,omitempty"`
	Slides   Specs          `yaml:"slides"`
}

// LoadDeckFile reads and parses a YAML deck file.
func LoadDeckFile(path string) (_ *DeckFile, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck file %s: %w", path, err)
	}
	df, err := ParseDeckFile(b)
	if err != nil {
		return nil, fmt.Errorf("failed to parse deck file %s: %w", path, err)
	}
	return df, nil
}

// ParseDeckFile parses YAML deck source. Unknown fields are rejected, and
// {{expression}} templates in text fields are expanded against vars.
func ParseDeckFile(b []byte) (_ *DeckFile, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	df := &DeckFile{}
	if err := yaml.UnmarshalWithOptions(b, df, yaml.Strict()); err != nil {
		return nil, err
	}
	if err := df.ExpandVars(); err != nil {
		return nil, err
	}
	return df, nil
}

// ExpandVars expands {{expression}} templates in the slides' text fields
// against the deck's vars.
func (df *DeckFile) ExpandVars() error {
	if len(df.Vars) == 0 {
		return nil
	}
	for i, spec := range df.Slides {
		if err := spec.expandVars(df.Vars); err != nil {
			return fmt.Errorf("failed to expand slide %d: %w", i, err)
		}
	}
	return nil
}

func (s *SlideSpec) expandVars(store map[string]any) error {
	expand := func(v *string) error {
		if !strings.Contains(*v, "{{") {
			return nil
		}
		expanded, err := template.Expand(*v, store)
		if err != nil {
			return err
		}
		*v = expanded
		return nil
	}
	if err := expand(&s.Title); err != nil {
		return err
	}
	if err := expand(&s.Subtitle); err != nil {
		return err
	}
	if err := expand(&s.Image); err != nil {
		return err
	}
	for i := range s.Content {
		if err := expand(&s.Content[i].Text); err != nil {
			return err
		}
	}
	for i := range s.Content2 {
		if err := expand(&s.Content2[i].Text); err != nil {
			return err
		}
	}
	return nil
}
