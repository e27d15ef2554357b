// Package pptx reads and writes PresentationML (.pptx) packages. It covers
// the handful of operations deck generation needs: cloning slides, stamping
// new slides out of layouts, placeholder surgery and media embedding. Parts
// it does not understand pass through untouched.
package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/k1LoW/errors"
)

const (
	presPart     = "ppt/presentation.xml"
	presRelsPart = "ppt/_rels/presentation.xml.rels"
	typesPart    = "[Content_Types].xml"
)

// Layout is a slide layout and its display name.
type Layout struct {
	Part string
	Name string
}

// Presentation is an opened .pptx package.
type Presentation struct {
	parts     map[string][]byte // pass-through parts
	presXML   []byte
	presRels  *Relationships
	types     *contentTypes
	slides    []*Slide
	layouts   []Layout
	nextSlide int
	mediaSeq  int
	media     []mediaEntry
}

type mediaEntry struct {
	part string
	sum  uint32
}

// Open reads a .pptx file.
func Open(path string) (_ *Presentation, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	p, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return p, nil
}

// Parse reads a .pptx package from memory.
func Parse(b []byte) (_ *Presentation, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("failed to read package: %w", err)
	}
	parts := map[string][]byte{}
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read part %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read part %s: %w", f.Name, err)
		}
		parts[f.Name] = data
	}
	p := &Presentation{parts: parts}
	if err := p.build(); err != nil {
		return nil, err
	}
	return p, nil
}

var (
	sldIdRe      = regexp.MustCompile(`<p:sldId[^>]*r:id="([^"]+)"`)
	sldIdLstRe   = regexp.MustCompile(`(?s)<p:sldIdLst>.*?</p:sldIdLst>|<p:sldIdLst/>`)
	cSldNameRe   = regexp.MustCompile(`<p:cSld[^>]*\sname="([^"]*)"`)
	hiddenRe     = regexp.MustCompile(`<p:sld\s[^>]*\bshow="0"`)
	layoutPartRe = regexp.MustCompile(`^ppt/slideLayouts/slideLayout([0-9]+)\.xml$`)
	slidePartRe  = regexp.MustCompile(`^ppt/slides/slide([0-9]+)\.xml$`)
	mediaPartRe  = regexp.MustCompile(`^ppt/media/[^/]*?([0-9]+)\.[A-Za-z0-9]+$`)
)

func (p *Presentation) build() (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	tb, ok := p.parts[typesPart]
	if !ok {
		return fmt.Errorf("failed to build package: missing %s", typesPart)
	}
	types, err := parseContentTypes(tb)
	if err != nil {
		return err
	}
	p.types = types
	delete(p.parts, typesPart)

	presXML, ok := p.parts[presPart]
	if !ok {
		return fmt.Errorf("failed to build package: missing %s", presPart)
	}
	p.presXML = presXML
	delete(p.parts, presPart)

	relsXML, ok := p.parts[presRelsPart]
	if !ok {
		return fmt.Errorf("failed to build package: missing %s", presRelsPart)
	}
	rels, err := parseRels(relsXML)
	if err != nil {
		return err
	}
	p.presRels = rels
	delete(p.parts, presRelsPart)

	// Slides, in slide id list order.
	for _, m := range sldIdRe.FindAllStringSubmatch(string(p.presXML), -1) {
		rel := p.presRels.byID(m[1])
		if rel == nil {
			return fmt.Errorf("failed to build package: unresolved slide relationship %s", m[1])
		}
		part := resolveTarget(presPart, rel.Target)
		xmlData, ok := p.parts[part]
		if !ok {
			return fmt.Errorf("failed to build package: missing slide part %s", part)
		}
		slideRels := emptyRels()
		relsName := relsPartFor(part)
		if rb, ok := p.parts[relsName]; ok {
			slideRels, err = parseRels(rb)
			if err != nil {
				return err
			}
		}
		p.slides = append(p.slides, &Slide{
			part:   part,
			xml:    xmlData,
			rels:   slideRels,
			hidden: hiddenRe.Match(xmlData),
		})
		delete(p.parts, part)
		delete(p.parts, relsName)
	}

	// Layouts in part-number order.
	var layoutNums []int
	layoutByNum := map[int]Layout{}
	for name, data := range p.parts {
		m := layoutPartRe.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		display := ""
		if nm := cSldNameRe.FindSubmatch(data); nm != nil {
			display = unescaper.Replace(string(nm[1]))
		}
		layoutNums = append(layoutNums, n)
		layoutByNum[n] = Layout{Part: name, Name: display}
	}
	sort.Ints(layoutNums)
	for _, n := range layoutNums {
		p.layouts = append(p.layouts, layoutByNum[n])
	}

	// Counters for fresh slide and media part names.
	p.nextSlide = 1
	for _, s := range p.slides {
		if m := slidePartRe.FindStringSubmatch(s.part); m != nil {
			n, _ := strconv.Atoi(m[1])
			if n >= p.nextSlide {
				p.nextSlide = n + 1
			}
		}
	}
	p.mediaSeq = 1
	for name, data := range p.parts {
		if !strings.HasPrefix(name, "ppt/media/") {
			continue
		}
		if m := mediaPartRe.FindStringSubmatch(name); m != nil {
			n, _ := strconv.Atoi(m[1])
			if n >= p.mediaSeq {
				p.mediaSeq = n + 1
			}
		}
		p.media = append(p.media, mediaEntry{part: name, sum: crc32.ChecksumIEEE(data)})
	}
	return nil
}

// Slides returns the live slides in presentation order.
func (p *Presentation) Slides() []*Slide {
	return p.slides
}

// Layouts returns the slide layouts in part order.
func (p *Presentation) Layouts() []Layout {
	return p.layouts
}

// LayoutByName returns the layout whose display name matches exactly.
func (p *Presentation) LayoutByName(name string) (Layout, bool) {
	for _, l := range p.layouts {
		if l.Name == name {
			return l, true
		}
	}
	return Layout{}, false
}

// Clone appends a copy of the i-th slide and returns it. The copy shares
// nothing with the original.
func (p *Presentation) Clone(i int) (_ *Slide, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if i < 0 || i >= len(p.slides) {
		return nil, fmt.Errorf("failed to clone slide: index %d out of range", i)
	}
	src := p.slides[i]
	s := &Slide{
		part: p.newSlidePart(),
		xml:  append([]byte(nil), src.xml...),
		rels: src.rels.clone(),
	}
	p.types.addOverride("/"+s.part, contentTypeSlide)
	p.slides = append(p.slides, s)
	return s, nil
}

// AddFromLayout appends a fresh slide built on the layout, cloning the
// layout's placeholders the way a slide editor does. Date, footer and slide
// number placeholders are not carried over.
func (p *Presentation) AddFromLayout(layout Layout) (_ *Slide, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	layoutXML, ok := p.parts[layout.Part]
	if !ok {
		return nil, fmt.Errorf("failed to add slide: missing layout part %s", layout.Part)
	}
	part := p.newSlidePart()

	var b strings.Builder
	b.WriteString(slideSkeletonHead)
	id := 2
	for _, blk := range scanShapes(layoutXML) {
		if !blk.hasPh {
			continue
		}
		switch blk.ph.Type {
		case "dt", "ftr", "sldNum":
			continue
		}
		name := ""
		if m := cNvPrNameRe.FindStringSubmatch(string(layoutXML[blk.start:blk.end])); m != nil {
			name = m[1]
		}
		b.WriteString(buildPlaceholderSp(id, part, name, blk.phRaw))
		id++
	}
	b.WriteString(slideSkeletonTail)

	rels := emptyRels()
	rels.add(RelTypeSlideLayout, relativeTarget(part, layout.Part))

	s := &Slide{part: part, xml: []byte(b.String()), rels: rels}
	p.types.addOverride("/"+part, contentTypeSlide)
	p.slides = append(p.slides, s)
	return s, nil
}

var cNvPrNameRe = regexp.MustCompile(`<p:cNvPr [^>]*name="([^"]*)"`)

func (p *Presentation) newSlidePart() string {
	part := fmt.Sprintf("ppt/slides/slide%d.xml", p.nextSlide)
	p.nextSlide++
	return part
}

// Remove detaches the slide from the presentation. Media the slide referred
// to stays in the package.
func (p *Presentation) Remove(s *Slide) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	for i, cur := range p.slides {
		if cur == s {
			p.slides = append(p.slides[:i], p.slides[i+1:]...)
			p.types.removeOverride("/" + s.part)
			return nil
		}
	}
	return fmt.Errorf("failed to remove slide: %s is not part of the presentation", s.part)
}

// MoveToEnd moves the slide to the end of the presentation order.
func (p *Presentation) MoveToEnd(s *Slide) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	for i, cur := range p.slides {
		if cur == s {
			p.slides = append(p.slides[:i], p.slides[i+1:]...)
			p.slides = append(p.slides, s)
			return nil
		}
	}
	return fmt.Errorf("failed to move slide: %s is not part of the presentation", s.part)
}

// AddMedia stores image data as a media part and returns the part name.
// Identical data is stored once.
func (p *Presentation) AddMedia(data []byte, ext string) (_ string, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	ct, ok := imageContentTypes[ext]
	if !ok {
		return "", fmt.Errorf("failed to add media: unsupported image type %q", ext)
	}
	sum := crc32.ChecksumIEEE(data)
	for _, m := range p.media {
		if m.sum == sum && bytes.Equal(p.parts[m.part], data) {
			return m.part, nil
		}
	}
	part := fmt.Sprintf("ppt/media/image%d.%s", p.mediaSeq, ext)
	p.mediaSeq++
	p.parts[part] = data
	p.media = append(p.media, mediaEntry{part: part, sum: sum})
	p.types.ensureDefault(ext, ct)
	return part, nil
}

// Save writes the package to path atomically.
func (p *Presentation) Save(path string) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pptx-*")
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if err := p.Write(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// Write writes the package as a zip stream. The slide id list, presentation
// relationships and content types are regenerated from the live slides.
func (p *Presentation) Write(w io.Writer) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	presXML, presRels, err := p.renderPresentation()
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	write := func(name string, data []byte) error {
		f, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("failed to write part %s: %w", name, err)
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("failed to write part %s: %w", name, err)
		}
		return nil
	}

	typesXML, err := p.types.render()
	if err != nil {
		return err
	}
	if err := write(typesPart, typesXML); err != nil {
		return err
	}
	if err := write(presPart, presXML); err != nil {
		return err
	}
	if err := write(presRelsPart, presRels); err != nil {
		return err
	}
	for _, s := range p.slides {
		if err := write(s.part, s.render()); err != nil {
			return err
		}
		relsXML, err := s.rels.render()
		if err != nil {
			return err
		}
		if err := write(relsPartFor(s.part), relsXML); err != nil {
			return err
		}
	}
	names := make([]string, 0, len(p.parts))
	for name := range p.parts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := write(name, p.parts[name]); err != nil {
			return err
		}
	}
	return zw.Close()
}

func (p *Presentation) renderPresentation() ([]byte, []byte, error) {
	rels := &Relationships{Xmlns: relsXmlns}
	maxID := 0
	for _, r := range p.presRels.Items {
		if r.Type == RelTypeSlide {
			continue
		}
		rels.Items = append(rels.Items, &Relationship{ID: r.ID, Type: r.Type, Target: r.Target, TargetMode: r.TargetMode})
		if n, ok := relNum(r.ID); ok && n > maxID {
			maxID = n
		}
	}
	var lst strings.Builder
	lst.WriteString("<p:sldIdLst>")
	for i, s := range p.slides {
		rid := fmt.Sprintf("rId%d", maxID+1+i)
		rels.Items = append(rels.Items, &Relationship{
			ID:     rid,
			Type:   RelTypeSlide,
			Target: relativeTarget(presPart, s.part),
		})
		fmt.Fprintf(&lst, `<p:sldId id="%d" r:id="%s"/>`, 256+i, rid)
	}
	lst.WriteString("</p:sldIdLst>")

	loc := sldIdLstRe.FindIndex(p.presXML)
	if loc == nil {
		return nil, nil, fmt.Errorf("failed to render presentation.xml: no slide id list")
	}
	doc := string(p.presXML[:loc[0]]) + lst.String() + string(p.presXML[loc[1]:])
	relsXML, err := rels.render()
	if err != nil {
		return nil, nil, err
	}
	return []byte(doc), relsXML, nil
}

func relNum(id string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(id, "rId"))
	if err != nil {
		return 0, false
	}
	return n, true
}
