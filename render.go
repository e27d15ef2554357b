package prez

import (
	"fmt"
	"log/slog"

	"github.com/k1LoW/errors"
	"github.com/k1LoW/prez/pptx"
)

const bulletChar = "•"

// Frames the renderer places free-form text into, in inches.
var (
	highlightBodyBox = pptx.Box{X: pptx.Inches(0.6), Y: pptx.Inches(1.4), W: pptx.Inches(12.0), H: pptx.Inches(5.5)}
	dateBox          = pptx.Box{X: pptx.Inches(9.0), Y: pptx.Inches(6.2), W: pptx.Inches(4.0), H: pptx.Inches(0.5)}
	slideNumberBox   = pptx.Box{X: pptx.Inches(11.8), Y: pptx.Inches(6.9), W: pptx.Inches(1.3), H: pptx.Inches(0.3)}
)

func (g *Generator) renderSlide(p *pptx.Presentation, s *pptx.Slide, spec *SlideSpec, images map[string]*Image) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	switch spec.Type {
	case TypeTitle:
		return g.renderTitle(p, s, spec, images)
	case TypeQuote:
		return g.renderQuote(s, spec)
	case TypeSplit:
		return g.renderSplit(p, s, spec, images)
	case TypeContent:
		return g.renderContent(s, spec)
	case TypeTwoColumn:
		return g.renderTwoColumn(s, spec)
	case TypeTextImage:
		return g.renderTextImage(p, s, spec, images)
	case TypeHighlight:
		return g.renderHighlight(s, spec)
	case TypeConclusion:
		return g.renderConclusion(s, spec)
	}
	return fmt.Errorf("unknown slide type: %q", spec.Type)
}

// renderTitle fills the cloned title archetype: statement, optional subtitle
// and background image, and the date stamp at the bottom right.
func (g *Generator) renderTitle(p *pptx.Presentation, s *pptx.Slide, spec *SlideSpec, images map[string]*Image) error {
	s.ClearPlaceholderText()
	if err := s.SetPlaceholderText(pptx.ByType("ctrTitle"), spec.Title); err != nil {
		return err
	}
	if spec.Subtitle != "" && s.HasPlaceholder(pptx.ByType("subTitle")) {
		if err := s.SetPlaceholderText(pptx.ByType("subTitle"), spec.Subtitle); err != nil {
			return err
		}
	}
	if err := g.placeImage(p, s, spec, images); err != nil {
		return err
	}
	st := g.theme.Date
	date := g.now().Format("2006-Jan-02")
	return s.AppendTextBox(dateBox, false, pptx.Paragraph{
		Align: "r",
		Runs:  []pptx.Run{{Text: date, Size: st.Size, Bold: st.Bold, Color: st.Color.Hex()}},
	})
}

func (g *Generator) renderQuote(s *pptx.Slide, spec *SlideSpec) error {
	s.ClearPlaceholderText()
	return s.SetPlaceholderText(pptx.ByType("ctrTitle"), spec.Title)
}

func (g *Generator) renderSplit(p *pptx.Presentation, s *pptx.Slide, spec *SlideSpec, images map[string]*Image) error {
	s.ClearPlaceholderText()
	if spec.Title != "" {
		if err := s.SetPlaceholderText(pptx.ByType("ctrTitle"), spec.Title); err != nil {
			return err
		}
	}
	if spec.Subtitle != "" && s.HasPlaceholder(pptx.ByType("subTitle")) {
		if err := s.SetPlaceholderText(pptx.ByType("subTitle"), spec.Subtitle); err != nil {
			return err
		}
	}
	return g.placeImage(p, s, spec, images)
}

func (g *Generator) renderContent(s *pptx.Slide, spec *SlideSpec) error {
	s.RemovePlaceholdersExcept(0, 14)
	if err := s.SetPlaceholderText(pptx.ByIdx(0), spec.Title); err != nil {
		return err
	}
	var paras []pptx.Paragraph
	if spec.Subtitle != "" {
		paras = append(paras, g.subtitleParagraph(spec.Subtitle))
	}
	paras = append(paras, bulletParagraphs(spec.Content, g.theme.Levels)...)
	if len(paras) == 0 {
		return nil
	}
	return s.FillPlaceholder(pptx.ByIdx(14), paras...)
}

func (g *Generator) renderTwoColumn(s *pptx.Slide, spec *SlideSpec) error {
	s.RemovePlaceholdersExcept(0, 14, 15)
	if err := s.SetPlaceholderText(pptx.ByIdx(0), spec.Title); err != nil {
		return err
	}
	if len(spec.Content) > 0 {
		if err := s.FillPlaceholder(pptx.ByIdx(14), plainBullets(spec.Content, g.theme.LeftBullet)...); err != nil {
			return err
		}
	}
	if len(spec.Content2) > 0 {
		if err := s.FillPlaceholder(pptx.ByIdx(15), plainBullets(spec.Content2, g.theme.RightBullet)...); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) renderTextImage(p *pptx.Presentation, s *pptx.Slide, spec *SlideSpec, images map[string]*Image) error {
	s.RemovePlaceholdersExcept(0, 13, 14, 15)
	if err := s.SetPlaceholderText(pptx.ByIdx(0), spec.Title); err != nil {
		return err
	}
	if spec.Subtitle != "" {
		st := g.theme.TextImageSubtitle
		if err := s.FillPlaceholder(pptx.ByIdx(14), pptx.Paragraph{
			Runs: []pptx.Run{{Text: spec.Subtitle, Size: st.Size, Bold: st.Bold, Color: st.Color.Hex()}},
		}); err != nil {
			return err
		}
	}
	if len(spec.Content) > 0 {
		if err := s.FillPlaceholder(pptx.ByIdx(13), bulletParagraphs(spec.Content, g.theme.TextImageLevels)...); err != nil {
			return err
		}
	}
	return g.placeImage(p, s, spec, images)
}

// renderHighlight puts the title in its placeholder and the emphasized body
// in a free-form textbox, which gives full control over per-run styling.
func (g *Generator) renderHighlight(s *pptx.Slide, spec *SlideSpec) error {
	s.RemovePlaceholdersExcept(0)
	if err := s.SetPlaceholderText(pptx.ByIdx(0), spec.Title); err != nil {
		return err
	}
	return s.AppendTextBox(highlightBodyBox, true, g.highlightParagraphs(spec.Content)...)
}

func (g *Generator) renderConclusion(s *pptx.Slide, spec *SlideSpec) error {
	s.RemovePlaceholdersExcept(0, 14)
	title := spec.Title
	if title == "" {
		title = "Conclusions"
	}
	if err := s.SetPlaceholderText(pptx.ByIdx(0), title); err != nil {
		return err
	}
	var paras []pptx.Paragraph
	if spec.Subtitle != "" {
		paras = append(paras, g.subtitleParagraph(spec.Subtitle))
	}
	paras = append(paras, bulletParagraphs(spec.Content, []LevelStyle{g.theme.Conclusion})...)
	if len(paras) == 0 {
		return nil
	}
	return s.FillPlaceholder(pptx.ByIdx(14), paras...)
}

// placeImage inserts the spec's image into the slide's picture placeholder.
// No image, no loaded data or no empty picture placeholder all mean the
// slide keeps whatever the archetype carries.
func (g *Generator) placeImage(p *pptx.Presentation, s *pptx.Slide, spec *SlideSpec, images map[string]*Image) error {
	if spec.Image == "" {
		return nil
	}
	img, ok := images[spec.Image]
	if !ok {
		return nil
	}
	if !s.HasPlaceholder(pptx.ByType("pic")) {
		return nil
	}
	part, err := p.AddMedia(img.Bytes(), img.Ext())
	if err != nil {
		return err
	}
	if err := s.InsertPicture(pptx.ByType("pic"), s.AddImageRel(part)); err != nil {
		return err
	}
	g.logger.Info("appended image", slog.String("image", spec.Image))
	return nil
}

// subtitleParagraph is the bullet-less lead-in line above content bullets.
func (g *Generator) subtitleParagraph(text string) pptx.Paragraph {
	st := g.theme.Subtitle
	return pptx.Paragraph{
		NoBullet:     true,
		SpaceAfterPt: 18,
		Runs:         []pptx.Run{{Text: text, Size: st.Size, Bold: st.Bold, Color: st.Color.Hex()}},
	}
}

// bulletParagraphs styles content items by nesting level. Levels deeper than
// the style list clamp to its last entry, indent included.
func bulletParagraphs(items []ContentItem, styles []LevelStyle) []pptx.Paragraph {
	paras := make([]pptx.Paragraph, 0, len(items))
	for _, item := range items {
		level := item.Level
		if max := len(styles) - 1; max >= 0 && level > max {
			level = max
		}
		st := clampStyle(styles, level)
		paras = append(paras, pptx.Paragraph{
			Level:       level,
			Bullet:      bulletChar,
			BulletColor: st.BulletColor.Hex(),
			Runs:        []pptx.Run{{Text: item.Text, Size: st.Size, Bold: st.Bold, Color: st.Color.Hex()}},
		})
	}
	return paras
}

// plainBullets colors the bullets but leaves run styling to the layout, the
// way two_column columns render.
func plainBullets(items []ContentItem, bullet Color) []pptx.Paragraph {
	paras := make([]pptx.Paragraph, 0, len(items))
	for _, item := range items {
		paras = append(paras, pptx.Paragraph{
			Level:       item.Level,
			Bullet:      bulletChar,
			BulletColor: bullet.Hex(),
			Runs:        []pptx.Run{{Text: item.Text}},
		})
	}
	return paras
}

// highlightParagraphs renders <<marked>> spans in the emphasis color. Level
// 0 items read as 18pt bold leads with dark bullets; nested items drop to
// 16pt with teal bullets.
func (g *Generator) highlightParagraphs(items []ContentItem) []pptx.Paragraph {
	paras := make([]pptx.Paragraph, 0, len(items))
	for _, item := range items {
		size := 18
		bold := true
		bulletColor := g.theme.Body
		if item.Level > 0 {
			size = 16
			bold = false
			bulletColor = g.theme.Highlight
		}
		var runs []pptx.Run
		for _, f := range ParseMarkup(item.Text) {
			color := g.theme.Body
			if f.Highlight {
				color = g.theme.Highlight
			}
			runs = append(runs, pptx.Run{Text: f.Value, Size: size, Bold: bold, Color: color.Hex()})
		}
		paras = append(paras, pptx.Paragraph{
			Level:       item.Level,
			Bullet:      bulletChar,
			BulletColor: bulletColor.Hex(),
			Runs:        runs,
		})
	}
	return paras
}

// renderSlideNumbers stamps "n / total" on every visible slide after the
// first. The denominator counts visible slides, the title excluded. A slide
// number placeholder is used when the slide has one, otherwise a textbox
// goes to the bottom right.
func (g *Generator) renderSlideNumbers(p *pptx.Presentation) error {
	var visible []*pptx.Slide
	for _, s := range p.Slides() {
		if !s.Hidden() {
			visible = append(visible, s)
		}
	}
	total := len(visible) - 1
	if total < 1 {
		return nil
	}
	st := g.theme.SlideNumber
	for rank, s := range visible {
		if rank == 0 {
			continue
		}
		text := fmt.Sprintf("%d / %d", rank, total)
		if s.HasPlaceholder(pptx.ByType("sldNum")) {
			// Inherit the placeholder's size; set only alignment and color.
			if err := s.FillPlaceholder(pptx.ByType("sldNum"), pptx.Paragraph{
				Align: "r",
				Runs:  []pptx.Run{{Text: text, Color: st.Color.Hex()}},
			}); err != nil {
				return err
			}
			continue
		}
		if err := s.AppendTextBox(slideNumberBox, false, pptx.Paragraph{
			Align: "r",
			Runs:  []pptx.Run{{Text: text, Size: st.Size, Color: st.Color.Hex()}},
		}); err != nil {
			return err
		}
	}
	return nil
}
