package pptx

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// English Metric Units. 914400 EMU per inch; a 16:9 slide is
// 12192000 x 6858000.
const (
	EMUPerInch     = 914400
	SlideWidthEMU  = 12192000
	SlideHeightEMU = 6858000

	// Bullet indentation: text starts at marL, the bullet hangs back by
	// the (negative) indent.
	bulletIndentEMU = 457200
	bulletHangEMU   = 274320
)

// Inches converts inches to EMUs.
func Inches(in float64) int64 {
	return int64(in * EMUPerInch)
}

// Box is a shape frame in EMUs.
type Box struct {
	X, Y, W, H int64
}

// Run is a styled run of text.
type Run struct {
	Text  string
	Bold  bool
	Size  int    // points; 0 inherits
	Color string // RRGGBB; empty inherits
}

// Paragraph is one paragraph with bullet and indent properties. The zero
// value inherits everything from the placeholder's list style.
type Paragraph struct {
	Level        int
	Runs         []Run
	Bullet       string // bullet character; empty inherits
	BulletColor  string // RRGGBB; empty inherits
	NoBullet     bool   // force bullets off
	Align        string // algn token ("r", "ctr", ...); empty inherits
	SpaceAfterPt int    // spacing after the paragraph in points
}

// Text concatenates the paragraph's run values.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

func escText(s string) string {
	return textEscaper.Replace(s)
}

func escAttr(s string) string {
	return attrEscaper.Replace(s)
}

func writeTxBody(b *strings.Builder, bodyPr string, paras []Paragraph) {
	b.WriteString("<p:txBody>")
	b.WriteString(bodyPr)
	b.WriteString("<a:lstStyle/>")
	if len(paras) == 0 {
		b.WriteString("<a:p/>")
	}
	for _, p := range paras {
		writeParagraph(b, p)
	}
	b.WriteString("</p:txBody>")
}

func writeParagraph(b *strings.Builder, p Paragraph) {
	b.WriteString("<a:p>")
	writePPr(b, p)
	for _, r := range p.Runs {
		writeRun(b, r)
	}
	b.WriteString("</a:p>")
}

func writePPr(b *strings.Builder, p Paragraph) {
	var attrs strings.Builder
	if p.Bullet != "" {
		// Text starts at marL; the bullet hangs back into the gap.
		marL := bulletIndentEMU * int64(p.Level+1)
		fmt.Fprintf(&attrs, ` marL="%d" indent="-%d"`, marL, bulletHangEMU)
	}
	if p.Level > 0 {
		fmt.Fprintf(&attrs, ` lvl="%d"`, p.Level)
	}
	if p.Align != "" {
		fmt.Fprintf(&attrs, ` algn="%s"`, escAttr(p.Align))
	}

	var children strings.Builder
	if p.SpaceAfterPt > 0 {
		fmt.Fprintf(&children, `<a:spcAft><a:spcPts val="%d"/></a:spcAft>`, p.SpaceAfterPt*100)
	}
	switch {
	case p.NoBullet:
		children.WriteString("<a:buNone/>")
	case p.Bullet != "":
		if p.BulletColor != "" {
			fmt.Fprintf(&children, `<a:buClr><a:srgbClr val="%s"/></a:buClr>`, p.BulletColor)
		}
		fmt.Fprintf(&children, `<a:buChar char="%s"/>`, escAttr(p.Bullet))
	}

	if attrs.Len() == 0 && children.Len() == 0 {
		return
	}
	if children.Len() == 0 {
		fmt.Fprintf(b, "<a:pPr%s/>", attrs.String())
		return
	}
	fmt.Fprintf(b, "<a:pPr%s>%s</a:pPr>", attrs.String(), children.String())
}

func writeRun(b *strings.Builder, r Run) {
	var attrs strings.Builder
	attrs.WriteString(` lang="en-US"`)
	if r.Size > 0 {
		fmt.Fprintf(&attrs, ` sz="%d"`, r.Size*100)
	}
	if r.Bold {
		attrs.WriteString(` b="1"`)
	}
	attrs.WriteString(` dirty="0"`)
	var rPr string
	if r.Color != "" {
		rPr = fmt.Sprintf(`<a:rPr%s><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:rPr>`, attrs.String(), r.Color)
	} else {
		rPr = fmt.Sprintf("<a:rPr%s/>", attrs.String())
	}
	// Embedded newlines become explicit line breaks.
	for i, part := range strings.Split(r.Text, "\n") {
		if i > 0 {
			b.WriteString("<a:br/>")
		}
		fmt.Fprintf(b, "<a:r>%s<a:t>%s</a:t></a:r>", rPr, escText(part))
	}
}

// writeCNvPr writes a non-visual shape properties element with a stable
// creation id, so regenerating the same deck produces byte-identical slides.
func writeCNvPr(b *strings.Builder, id int, name, seed string) {
	creationID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s#%d:%s", seed, id, name)))
	fmt.Fprintf(b,
		`<p:cNvPr id="%d" name="%s"><a:extLst><a:ext uri="{FF2B5EF4-FFF2-40B4-BE49-F238E27FC236}"><a16:creationId xmlns:a16="http://schemas.microsoft.com/office/drawing/2014/main" id="{%s}"/></a:ext></a:extLst></p:cNvPr>`,
		id, escAttr(name), strings.ToUpper(creationID.String()))
}

// buildTextBoxSp builds a free-form textbox shape.
func buildTextBoxSp(id int, seed string, box Box, paras []Paragraph, wordWrap bool) string {
	var b strings.Builder
	b.WriteString("<p:sp><p:nvSpPr>")
	writeCNvPr(&b, id, fmt.Sprintf("TextBox %d", id-1), seed)
	b.WriteString(`<p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`)
	fmt.Fprintf(&b,
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`,
		box.X, box.Y, box.W, box.H)
	bodyPr := `<a:bodyPr wrap="none"><a:spAutoFit/></a:bodyPr>`
	if wordWrap {
		bodyPr = `<a:bodyPr wrap="square"><a:spAutoFit/></a:bodyPr>`
	}
	writeTxBody(&b, bodyPr, paras)
	b.WriteString("</p:sp>")
	return b.String()
}

// buildPlaceholderSp builds the minimal placeholder shape a fresh slide
// carries. The ph tag comes from the layout verbatim; geometry and styling
// inherit from there.
func buildPlaceholderSp(id int, seed, name, phRaw string) string {
	var b strings.Builder
	b.WriteString("<p:sp><p:nvSpPr>")
	writeCNvPr(&b, id, name, seed)
	b.WriteString(`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr>`)
	b.WriteString(phRaw)
	b.WriteString(`</p:nvPr></p:nvSpPr><p:spPr/>`)
	writeTxBody(&b, "<a:bodyPr/>", nil)
	b.WriteString("</p:sp>")
	return b.String()
}

// slideSkeleton is a fresh slide part with an empty shape tree.
const slideSkeletonHead = xmlHeader +
	`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
	`<p:cSld><p:spTree>` +
	`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

const slideSkeletonTail = `</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`
