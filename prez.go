// Package prez generates branded PowerPoint decks. It renders typed slide
// specs onto the archetype slides and layouts of a .pptx template, so every
// generated deck keeps the template's masters, gradients and fonts.
package prez

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/k1LoW/errors"
	"github.com/k1LoW/prez/pptx"
)

// Positions of the archetype slides every template must carry.
const (
	archetypeTitle = 0
	archetypeQuote = 1
	archetypeSplit = 2
	archetypeCount = 3
)

// Layout display names looked up in the template. A missing name falls back
// to the template's first layout.
const (
	layoutNameContent   = "2_Title and Content"
	layoutNameTwoColumn = "17_Title and Content"
	layoutNameTextImage = "12_Title and Content"
	layoutNameHighlight = "25_Title and Content"
)

// Generator renders slide specs onto a template.
type Generator struct {
	theme        *Theme
	logger       *slog.Logger
	httpClient   *http.Client
	slideNumbers bool
	now          func() time.Time
}

// Option is an option for New.
type Option func(*Generator) error

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) error {
		if l == nil {
			return nil
		}
		g.logger = l
		return nil
	}
}

// WithTheme replaces the brand theme.
func WithTheme(t *Theme) Option {
	return func(g *Generator) error {
		if t == nil {
			return nil
		}
		g.theme = t
		return nil
	}
}

// WithSlideNumbers enables the "current / total" stamp on every slide after
// the title.
func WithSlideNumbers(enabled bool) Option {
	return func(g *Generator) error {
		g.slideNumbers = enabled
		return nil
	}
}

// WithHTTPClient sets the client used to fetch remote images.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Generator) error {
		if c == nil {
			return nil
		}
		g.httpClient = c
		return nil
	}
}

// WithNow fixes the clock behind the title slide's date stamp.
func WithNow(now func() time.Time) Option {
	return func(g *Generator) error {
		if now == nil {
			return nil
		}
		g.now = now
		return nil
	}
}

// New creates a new Generator.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		theme:  DefaultTheme(),
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	if g.httpClient == nil {
		g.httpClient = newHTTPClient(g.logger)
	}
	return g, nil
}

// Generate validates specs, renders them onto the template at templatePath
// and writes the finished deck to out. Output slides appear in spec order;
// the template's own slides never survive into the output.
func (g *Generator) Generate(ctx context.Context, out, templatePath string, specs Specs) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if err := specs.Validate(); err != nil {
		return err
	}
	p, err := pptx.Open(templatePath)
	if err != nil {
		return fmt.Errorf("failed to open template: %w", err)
	}
	scaffolds := append([]*pptx.Slide(nil), p.Slides()...)
	if len(scaffolds) < archetypeCount {
		return &TemplateStructureError{
			Path:   templatePath,
			Reason: fmt.Sprintf("expected at least %d archetype slides, got %d", archetypeCount, len(scaffolds)),
		}
	}
	images, err := g.preloadImages(ctx, specs)
	if err != nil {
		return err
	}
	for i, spec := range specs {
		s, err := g.newSlide(p, spec)
		if err != nil {
			return fmt.Errorf("failed to prepare page %d: %w", i, err)
		}
		if err := g.renderSlide(p, s, spec, images); err != nil {
			return fmt.Errorf("failed to render page %d: %w", i, err)
		}
		if spec.Hidden {
			s.Hide(true)
		}
		g.logger.Info("rendered page", slog.Int("index", i), slog.String("type", string(spec.Type)))
	}
	for i := len(scaffolds) - 1; i >= 0; i-- {
		if err := p.Remove(scaffolds[i]); err != nil {
			return fmt.Errorf("failed to remove scaffold %d: %w", i, err)
		}
		g.logger.Info("removed scaffold", slog.Int("index", i))
	}
	if g.slideNumbers {
		if err := g.renderSlideNumbers(p); err != nil {
			return fmt.Errorf("failed to render slide numbers: %w", err)
		}
	}
	if err := p.Save(out); err != nil {
		return fmt.Errorf("failed to save deck: %w", err)
	}
	g.logger.Info("generate completed", slog.String("out", out), slog.Int("pages", len(specs)))
	return nil
}

// newSlide creates the output slide for one spec: title, quote and split
// clone their archetype so gradients and pictures carry over; the content
// family starts fresh from a layout.
func (g *Generator) newSlide(p *pptx.Presentation, spec *SlideSpec) (*pptx.Slide, error) {
	switch spec.Type {
	case TypeTitle:
		return p.Clone(archetypeTitle)
	case TypeQuote:
		return p.Clone(archetypeQuote)
	case TypeSplit:
		return p.Clone(archetypeSplit)
	case TypeTwoColumn:
		return p.AddFromLayout(g.layoutOr(p, layoutNameTwoColumn))
	case TypeTextImage:
		return p.AddFromLayout(g.layoutOr(p, layoutNameTextImage))
	case TypeHighlight:
		if l, ok := p.LayoutByName(layoutNameHighlight); ok {
			return p.AddFromLayout(l)
		}
		return p.AddFromLayout(g.layoutOr(p, layoutNameContent))
	default:
		return p.AddFromLayout(g.layoutOr(p, layoutNameContent))
	}
}

// layoutOr returns the named layout, or the template's first layout when the
// name is absent.
func (g *Generator) layoutOr(p *pptx.Presentation, name string) pptx.Layout {
	if l, ok := p.LayoutByName(name); ok {
		return l
	}
	layouts := p.Layouts()
	if len(layouts) == 0 {
		return pptx.Layout{}
	}
	g.logger.Warn("layout not found, falling back",
		slog.String("layout", name),
		slog.String("fallback", layouts[0].Name))
	return layouts[0]
}

// Generate renders specs onto the template with default options and writes
// the deck to out.
func Generate(ctx context.Context, out, templatePath string, specs Specs) error {
	g, err := New()
	if err != nil {
		return err
	}
	return g.Generate(ctx, out, templatePath, specs)
}

// ValidateTemplate opens the template and verifies it carries the archetype
// slides generation clones. It returns the template's layout display names
// in part order.
func ValidateTemplate(path string) (_ []string, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	p, err := pptx.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	if n := len(p.Slides()); n < archetypeCount {
		return nil, &TemplateStructureError{
			Path:   path,
			Reason: fmt.Sprintf("expected at least %d archetype slides, got %d", archetypeCount, n),
		}
	}
	var layouts []string
	for _, l := range p.Layouts() {
		layouts = append(layouts, l.Name)
	}
	return layouts, nil
}
