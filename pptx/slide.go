package pptx

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/k1LoW/errors"
)

// Slide is one slide part and its relationships.
type Slide struct {
	part   string
	xml    []byte
	rels   *Relationships
	hidden bool
}

// Part returns the slide's part name, like "ppt/slides/slide3.xml".
func (s *Slide) Part() string {
	return s.part
}

// Hidden reports whether the slide is skipped during the slide show.
func (s *Slide) Hidden() bool {
	return s.hidden
}

// Hide marks the slide as skipped during the slide show.
func (s *Slide) Hide(hidden bool) {
	s.hidden = hidden
}

// Placeholder identifies a placeholder shape on a slide.
type Placeholder struct {
	Type string // "title", "ctrTitle", "subTitle", "body", "pic", "sldNum", ...
	Idx  int
}

// Selector matches placeholders.
type Selector func(Placeholder) bool

// ByType matches placeholders by type token.
func ByType(types ...string) Selector {
	return func(ph Placeholder) bool {
		for _, t := range types {
			if ph.Type == t {
				return true
			}
		}
		return false
	}
}

// ByIdx matches placeholders by index.
func ByIdx(idxs ...int) Selector {
	return func(ph Placeholder) bool {
		for _, i := range idxs {
			if ph.Idx == i {
				return true
			}
		}
		return false
	}
}

// spBlock is a shape element located in the slide XML.
type spBlock struct {
	start, end int // [start, end) offsets of <p:sp>...</p:sp>
	ph         Placeholder
	phRaw      string // the <p:ph .../> tag, normalized self-closing
	hasPh      bool
}

var (
	phTypeRe = regexp.MustCompile(`type="([^"]*)"`)
	phIdxRe  = regexp.MustCompile(`idx="([0-9]+)"`)
	cNvPrRe  = regexp.MustCompile(`<p:cNvPr [^>]*id="([0-9]+)"`)
)

// scanShapes locates the top-level <p:sp> blocks of the shape tree.
func scanShapes(b []byte) []spBlock {
	s := string(b)
	var blocks []spBlock
	pos := 0
	for {
		start := indexTag(s, pos, "<p:sp")
		if start < 0 {
			break
		}
		end := start
		depth := 0
		cur := start
		for {
			open := indexTag(s, cur, "<p:sp")
			close := strings.Index(s[cur:], "</p:sp>")
			if close < 0 {
				return blocks // malformed; stop scanning
			}
			close += cur
			if open >= 0 && open < close {
				depth++
				cur = open + len("<p:sp")
				continue
			}
			depth--
			cur = close + len("</p:sp>")
			if depth == 0 {
				end = cur
				break
			}
		}
		blocks = append(blocks, parseSpBlock(s, start, end))
		pos = end
	}
	return blocks
}

// indexTag finds the next occurrence of prefix at pos or later that is a
// complete tag name (followed by a space, "/" or ">").
func indexTag(s string, pos int, prefix string) int {
	for {
		i := strings.Index(s[pos:], prefix)
		if i < 0 {
			return -1
		}
		i += pos
		j := i + len(prefix)
		if j < len(s) {
			switch s[j] {
			case ' ', '>', '/':
				return i
			}
		}
		pos = i + len(prefix)
	}
}

func parseSpBlock(s string, start, end int) spBlock {
	blk := spBlock{start: start, end: end}
	body := s[start:end]
	i := indexTag(body, 0, "<p:ph")
	if i < 0 {
		return blk
	}
	j := strings.IndexByte(body[i:], '>')
	if j < 0 {
		return blk
	}
	raw := body[i : i+j+1]
	if !strings.HasSuffix(raw, "/>") {
		raw = strings.TrimSuffix(raw, ">") + "/>"
	}
	blk.hasPh = true
	blk.phRaw = raw
	blk.ph = Placeholder{Type: "body"}
	if m := phTypeRe.FindStringSubmatch(raw); m != nil && m[1] != "" {
		blk.ph.Type = m[1]
	}
	if m := phIdxRe.FindStringSubmatch(raw); m != nil {
		blk.ph.Idx, _ = strconv.Atoi(m[1])
	}
	return blk
}

// Placeholders lists the slide's placeholders in document order.
func (s *Slide) Placeholders() []Placeholder {
	var phs []Placeholder
	for _, blk := range scanShapes(s.xml) {
		if blk.hasPh {
			phs = append(phs, blk.ph)
		}
	}
	return phs
}

// HasPlaceholder reports whether any placeholder matches sel.
func (s *Slide) HasPlaceholder(sel Selector) bool {
	for _, ph := range s.Placeholders() {
		if sel(ph) {
			return true
		}
	}
	return false
}

func (s *Slide) findPlaceholder(sel Selector) (spBlock, bool) {
	for _, blk := range scanShapes(s.xml) {
		if blk.hasPh && sel(blk.ph) {
			return blk, true
		}
	}
	return spBlock{}, false
}

// SetPlaceholderText replaces the text of the first placeholder matching sel.
// Newlines split the text into paragraphs. Styling inherits from the layout.
func (s *Slide) SetPlaceholderText(sel Selector, text string) error {
	var paras []Paragraph
	for _, line := range strings.Split(text, "\n") {
		paras = append(paras, Paragraph{Runs: []Run{{Text: line}}})
	}
	return s.FillPlaceholder(sel, paras...)
}

// FillPlaceholder replaces the paragraphs of the first placeholder matching
// sel, keeping the placeholder's body properties intact.
func (s *Slide) FillPlaceholder(sel Selector, paras ...Paragraph) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	blk, ok := s.findPlaceholder(sel)
	if !ok {
		return fmt.Errorf("failed to fill placeholder: no match on %s", s.part)
	}
	doc := string(s.xml)
	body, ok := replaceTxBodyParagraphs(doc[blk.start:blk.end], paras)
	if !ok {
		return fmt.Errorf("failed to fill placeholder: no text body on %s", s.part)
	}
	s.xml = []byte(doc[:blk.start] + body + doc[blk.end:])
	return nil
}

// ClearPlaceholderText empties the text of every placeholder on the slide,
// keeping the placeholders themselves and their body properties.
func (s *Slide) ClearPlaceholderText() {
	doc := string(s.xml)
	var b strings.Builder
	pos := 0
	for _, blk := range scanShapes(s.xml) {
		b.WriteString(doc[pos:blk.start])
		body := doc[blk.start:blk.end]
		if blk.hasPh {
			body, _ = replaceTxBodyParagraphs(body, nil)
		}
		b.WriteString(body)
		pos = blk.end
	}
	b.WriteString(doc[pos:])
	s.xml = []byte(b.String())
}

// replaceTxBodyParagraphs swaps the paragraphs of a shape's text body,
// keeping bodyPr and lstStyle as they are. Empty paras leaves one empty
// paragraph, which the schema requires.
func replaceTxBodyParagraphs(body string, paras []Paragraph) (string, bool) {
	tb := strings.Index(body, "<p:txBody>")
	if tb < 0 {
		return body, false
	}
	tbEnd := strings.Index(body[tb:], "</p:txBody>")
	if tbEnd < 0 {
		return body, false
	}
	tbEnd += tb
	inner := body[tb:tbEnd]
	cut := indexTag(inner, 0, "<a:p")
	if cut < 0 {
		cut = len(inner)
	}
	var nb strings.Builder
	nb.WriteString(inner[:cut])
	if len(paras) == 0 {
		nb.WriteString("<a:p/>")
	}
	for _, p := range paras {
		writeParagraph(&nb, p)
	}
	return body[:tb] + nb.String() + body[tbEnd:], true
}

// RemovePlaceholdersExcept removes every placeholder shape whose idx is not
// listed. Non-placeholder shapes are left alone.
func (s *Slide) RemovePlaceholdersExcept(keep ...int) {
	kept := map[int]bool{}
	for _, i := range keep {
		kept[i] = true
	}
	blocks := scanShapes(s.xml)
	doc := string(s.xml)
	var b strings.Builder
	pos := 0
	for _, blk := range blocks {
		b.WriteString(doc[pos:blk.start])
		if !blk.hasPh || kept[blk.ph.Idx] {
			b.WriteString(doc[blk.start:blk.end])
		}
		pos = blk.end
	}
	b.WriteString(doc[pos:])
	s.xml = []byte(b.String())
}

// AppendTextBox appends a free-form textbox to the shape tree.
func (s *Slide) AppendTextBox(box Box, wordWrap bool, paras ...Paragraph) error {
	sp := buildTextBoxSp(s.nextShapeID(), s.part, box, paras, wordWrap)
	return s.appendShape(sp)
}

func (s *Slide) appendShape(sp string) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	doc := string(s.xml)
	i := strings.Index(doc, "</p:spTree>")
	if i < 0 {
		return fmt.Errorf("failed to append shape: no shape tree on %s", s.part)
	}
	s.xml = []byte(doc[:i] + sp + doc[i:])
	return nil
}

// InsertPicture replaces the first placeholder matching sel with a picture
// bound to the image relationship rID.
func (s *Slide) InsertPicture(sel Selector, rID string) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	blk, ok := s.findPlaceholder(sel)
	if !ok {
		return fmt.Errorf("failed to insert picture: no match on %s", s.part)
	}
	id := s.nextShapeID()
	var b strings.Builder
	b.WriteString("<p:pic><p:nvPicPr>")
	writeCNvPr(&b, id, fmt.Sprintf("Picture %d", id-1), s.part)
	b.WriteString(`<p:cNvPicPr><a:picLocks noGrp="1" noChangeAspect="1"/></p:cNvPicPr><p:nvPr>`)
	b.WriteString(blk.phRaw)
	b.WriteString(`</p:nvPr></p:nvPicPr>`)
	fmt.Fprintf(&b, `<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill><p:spPr/></p:pic>`, rID)
	doc := string(s.xml)
	s.xml = []byte(doc[:blk.start] + b.String() + doc[blk.end:])
	return nil
}

// AddImageRel relates the slide to an image part and returns the
// relationship id for r:embed. An existing relationship to the same part is
// reused.
func (s *Slide) AddImageRel(mediaPart string) string {
	target := relativeTarget(s.part, mediaPart)
	if id, ok := s.rels.findTarget(RelTypeImage, target); ok {
		return id
	}
	return s.rels.add(RelTypeImage, target)
}

func (s *Slide) nextShapeID() int {
	max := 1
	for _, m := range cNvPrRe.FindAllStringSubmatch(string(s.xml), -1) {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if id > max {
			max = id
		}
	}
	return max + 1
}

var (
	aTextRe    = regexp.MustCompile(`(?s)<a:t>(.*?)</a:t>`)
	unescaper  = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'", "&amp;", "&")
	showAttrRe = regexp.MustCompile(`<p:sld\s[^>]*\bshow="[^"]*"`)
	sldOpenRe  = regexp.MustCompile(`<p:sld(\s|>)`)
)

// Texts returns every text run on the slide in document order.
func (s *Slide) Texts() []string {
	var texts []string
	for _, m := range aTextRe.FindAllStringSubmatch(string(s.xml), -1) {
		texts = append(texts, unescaper.Replace(m[1]))
	}
	return texts
}

// render returns the slide XML with the hidden flag applied to the root
// element.
func (s *Slide) render() []byte {
	if !s.hidden {
		return s.xml
	}
	doc := string(s.xml)
	if showAttrRe.MatchString(doc) {
		return s.xml
	}
	loc := sldOpenRe.FindStringIndex(doc)
	if loc == nil {
		return s.xml
	}
	at := loc[0] + len("<p:sld")
	return []byte(doc[:at] + ` show="0"` + doc[at:])
}
