package prez

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/k1LoW/errors"
	"github.com/k1LoW/prez/pptx"
)

const tplXMLHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const tplXmlns = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

func tplSp(id int, name, ph, text string) string {
	para := "<a:p/>"
	if text != "" {
		para = `<a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>` + text + `</a:t></a:r></a:p>`
	}
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr>%s</p:nvPr></p:nvSpPr><p:spPr/><p:txBody><a:bodyPr/><a:lstStyle/>%s</p:txBody></p:sp>`, id, name, ph, para)
}

func tplSlideXML(shapes ...string) string {
	return tplXMLHeader + `<p:sld ` + tplXmlns + `><p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		strings.Join(shapes, "") +
		`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`
}

func tplLayoutXML(name string, shapes ...string) string {
	return tplXMLHeader + `<p:sldLayout ` + tplXmlns + `><p:cSld name="` + name + `"><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		strings.Join(shapes, "") +
		`</p:spTree></p:cSld></p:sldLayout>`
}

// writeTestTemplate builds a minimal brand template: the three archetype
// slides (title, quote, split) and the four content-family layouts. A lower
// archetypes count truncates the slides to provoke structure errors.
func writeTestTemplate(t *testing.T, archetypes int) string {
	t.Helper()

	slides := []string{
		tplSlideXML(
			tplSp(2, "Title 1", `<p:ph type="ctrTitle"/>`, "Scaffold Title"),
			tplSp(3, "Subtitle 2", `<p:ph type="subTitle" idx="1"/>`, "Scaffold Subtitle"),
			tplSp(4, "Picture 3", `<p:ph type="pic" idx="2"/>`, ""),
		),
		tplSlideXML(
			tplSp(2, "Title 1", `<p:ph type="ctrTitle"/>`, "Scaffold Quote"),
		),
		tplSlideXML(
			tplSp(2, "Title 1", `<p:ph type="ctrTitle"/>`, "Scaffold Split"),
			tplSp(3, "Subtitle 2", `<p:ph type="subTitle" idx="1"/>`, "Scaffold Split Subtitle"),
			tplSp(4, "Picture 3", `<p:ph type="pic" idx="2"/>`, ""),
		),
	}
	if archetypes < len(slides) {
		slides = slides[:archetypes]
	}

	layouts := map[string]string{
		"ppt/slideLayouts/slideLayout1.xml": tplLayoutXML("2_Title and Content",
			tplSp(2, "Title 1", `<p:ph type="title"/>`, "Click to add title"),
			tplSp(3, "Content Placeholder 2", `<p:ph idx="14"/>`, "Click to add text"),
			tplSp(4, "Date Placeholder 3", `<p:ph type="dt" sz="half" idx="10"/>`, ""),
			tplSp(5, "Footer Placeholder 4", `<p:ph type="ftr" sz="quarter" idx="11"/>`, ""),
			tplSp(6, "Slide Number Placeholder 5", `<p:ph type="sldNum" sz="quarter" idx="12"/>`, ""),
		),
		"ppt/slideLayouts/slideLayout2.xml": tplLayoutXML("17_Title and Content",
			tplSp(2, "Title 1", `<p:ph type="title"/>`, "Click to add title"),
			tplSp(3, "Left Column 2", `<p:ph idx="14"/>`, ""),
			tplSp(4, "Right Column 3", `<p:ph idx="15"/>`, ""),
		),
		"ppt/slideLayouts/slideLayout3.xml": tplLayoutXML("12_Title and Content",
			tplSp(2, "Title 1", `<p:ph type="title"/>`, "Click to add title"),
			tplSp(3, "Content Placeholder 2", `<p:ph idx="13"/>`, ""),
			tplSp(4, "Text Placeholder 3", `<p:ph idx="14"/>`, ""),
			tplSp(5, "Picture Placeholder 4", `<p:ph type="pic" idx="15"/>`, ""),
		),
		"ppt/slideLayouts/slideLayout4.xml": tplLayoutXML("25_Title and Content",
			tplSp(2, "Title 1", `<p:ph type="title"/>`, "Click to add title"),
		),
	}

	var types strings.Builder
	types.WriteString(tplXMLHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
		`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	for name := range layouts {
		types.WriteString(`<Override PartName="/` + name + `" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	}
	for i := range slides {
		fmt.Fprintf(&types, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
	}
	types.WriteString(`</Types>`)

	var sldIDs, slideRels strings.Builder
	for i := range slides {
		fmt.Fprintf(&sldIDs, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+2)
		fmt.Fprintf(&slideRels, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, i+2, i+1)
	}
	presentation := tplXMLHeader + `<p:presentation ` + tplXmlns + `>` +
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
		`<p:sldIdLst>` + sldIDs.String() + `</p:sldIdLst>` +
		`<p:sldSz cx="12192000" cy="6858000"/>` +
		`</p:presentation>`
	presRels := tplXMLHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>` +
		slideRels.String() +
		`</Relationships>`
	master := tplXMLHeader + `<p:sldMaster ` + tplXmlns + `><p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>` +
		`</p:spTree></p:cSld></p:sldMaster>`

	parts := map[string]string{}
	parts["[Content_Types].xml"] = types.String()
	parts["ppt/presentation.xml"] = presentation
	parts["ppt/_rels/presentation.xml.rels"] = presRels
	parts["ppt/slideMasters/slideMaster1.xml"] = master
	for name, data := range layouts {
		parts[name] = data
	}
	for i, data := range slides {
		parts[fmt.Sprintf("ppt/slides/slide%d.xml", i+1)] = data
		parts[fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1)] = tplXMLHeader +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
			`</Relationships>`
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(data)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "template.pptx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func mediaParts(t *testing.T, path string) []string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		t.Fatal(err)
	}
	var media []string
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/media/") {
			media = append(media, f.Name)
		}
	}
	return media
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	tpl := writeTestTemplate(t, 3)
	pngPath := writeTestPNG(t, t.TempDir(), "arch.png")
	out := filepath.Join(t.TempDir(), "out.pptx")

	specs := Specs{
		{Type: TypeTitle, Title: "Annual Report", Subtitle: "FY 2025"},
		{Type: TypeContent, Title: "Agenda", Subtitle: "What we cover", Content: []ContentItem{
			{Text: "Opening"},
			{Text: "Detail", Level: 1},
			{Text: "Deep dive", Level: 5},
		}},
		{Type: TypeTwoColumn, Title: "Compare", Content: []ContentItem{
			{Text: "Fast"},
			{Text: "Clear"},
		}, Content2: []ContentItem{
			{Text: "Manual"},
			{Text: "Sparse"},
		}},
		{Type: TypeTextImage, Title: "Architecture", Subtitle: "Service view", Content: []ContentItem{
			{Text: "Ingest"},
			{Text: "Transform"},
		}, Image: pngPath},
		{Type: TypeHighlight, Title: "Wins", Content: []ContentItem{
			{Text: "Cut costs by <<38%>> this year"},
		}},
		{Type: TypeConclusion, Content: []ContentItem{
			{Text: "Ship weekly"},
			{Text: "Keep quality"},
		}},
		{Type: TypeQuote, Title: "Ship it.", Hidden: true},
		{Type: TypeSplit, Title: "Launch", Image: pngPath, Hidden: true},
	}

	fixed := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
	g, err := New(WithSlideNumbers(true), WithNow(func() time.Time { return fixed }))
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Generate(ctx, out, tpl, specs); err != nil {
		t.Fatal(err)
	}

	p, err := pptx.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(p.Slides()); got != len(specs) {
		t.Fatalf("want %d slides, got %d", len(specs), got)
	}

	wantTexts := [][]string{
		{"Annual Report", "FY 2025", "2025-Mar-14"},
		{"Agenda", "What we cover", "Opening", "Detail", "Deep dive", "1 / 5"},
		{"Compare", "Fast", "Clear", "Manual", "Sparse", "2 / 5"},
		{"Architecture", "Ingest", "Transform", "Service view", "3 / 5"},
		{"Wins", "Cut costs by ", "38%", " this year", "4 / 5"},
		{"Conclusions", "Ship weekly", "Keep quality", "5 / 5"},
		{"Ship it."},
		{"Launch"},
	}
	wantHidden := []bool{false, false, false, false, false, false, true, true}
	for i, s := range p.Slides() {
		if diff := cmp.Diff(wantTexts[i], s.Texts()); diff != "" {
			t.Errorf("slide %d texts:\n%s", i, diff)
		}
		if s.Hidden() != wantHidden[i] {
			t.Errorf("slide %d hidden = %v, want %v", i, s.Hidden(), wantHidden[i])
		}
	}

	// Layout date, footer and slide number placeholders never reach the
	// generated slides.
	content := p.Slides()[1]
	for _, typ := range []string{"dt", "ftr", "sldNum"} {
		if content.HasPlaceholder(pptx.ByType(typ)) {
			t.Errorf("want no %s placeholder on the content slide", typ)
		}
	}

	// The same image on two slides stores one media part.
	if got := mediaParts(t, out); len(got) != 1 {
		t.Errorf("media parts = %v, want exactly one", got)
	}
}

func TestGenerateInvalidSpec(t *testing.T) {
	tpl := writeTestTemplate(t, 3)
	out := filepath.Join(t.TempDir(), "out.pptx")
	g, err := New()
	if err != nil {
		t.Fatal(err)
	}
	err = g.Generate(context.Background(), out, tpl, Specs{{Type: "bogus"}})
	if err == nil {
		t.Fatal("want error for an unknown slide type")
	}
	var ise *InvalidSpecError
	if !errors.As(err, &ise) {
		t.Fatalf("error = %T, want *InvalidSpecError", err)
	}
	// Nothing is written on failure.
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("want no output file")
	}
}

func TestGenerateBrokenTemplate(t *testing.T) {
	tpl := writeTestTemplate(t, 2)
	out := filepath.Join(t.TempDir(), "out.pptx")
	g, err := New()
	if err != nil {
		t.Fatal(err)
	}
	err = g.Generate(context.Background(), out, tpl, Specs{{Type: TypeContent, Title: "x"}})
	if err == nil {
		t.Fatal("want error for a template without the archetype slides")
	}
	var tse *TemplateStructureError
	if !errors.As(err, &tse) {
		t.Fatalf("error = %T, want *TemplateStructureError", err)
	}
}

// A missing local image logs a warning and the slide renders without it.
func TestGenerateMissingImage(t *testing.T) {
	tpl := writeTestTemplate(t, 3)
	out := filepath.Join(t.TempDir(), "out.pptx")
	g, err := New()
	if err != nil {
		t.Fatal(err)
	}
	specs := Specs{
		{Type: TypeSplit, Title: "Cover", Image: filepath.Join(t.TempDir(), "missing.png")},
	}
	if err := g.Generate(context.Background(), out, tpl, specs); err != nil {
		t.Fatal(err)
	}
	if got := mediaParts(t, out); len(got) != 0 {
		t.Errorf("media parts = %v, want none", got)
	}
}

func TestGenerateDefaults(t *testing.T) {
	tpl := writeTestTemplate(t, 3)
	out := filepath.Join(t.TempDir(), "out.pptx")
	specs := Specs{{Type: TypeContent, Title: "Only Page", Content: []ContentItem{{Text: "One"}}}}
	if err := Generate(context.Background(), out, tpl, specs); err != nil {
		t.Fatal(err)
	}
	p, err := pptx.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(p.Slides()); got != 1 {
		t.Fatalf("want 1 slide, got %d", got)
	}
	// Slide numbers stay off unless asked for.
	for _, text := range p.Slides()[0].Texts() {
		if strings.Contains(text, " / ") {
			t.Errorf("unexpected slide number %q", text)
		}
	}
}

func TestValidateTemplate(t *testing.T) {
	tpl := writeTestTemplate(t, 3)
	layouts, err := ValidateTemplate(tpl)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"2_Title and Content",
		"17_Title and Content",
		"12_Title and Content",
		"25_Title and Content",
	}
	if diff := cmp.Diff(want, layouts); diff != "" {
		t.Error(diff)
	}

	broken := writeTestTemplate(t, 2)
	_, err = ValidateTemplate(broken)
	var tse *TemplateStructureError
	if !errors.As(err, &tse) {
		t.Fatalf("error = %T, want *TemplateStructureError", err)
	}

	if _, err := ValidateTemplate(filepath.Join(t.TempDir(), "none.pptx")); err == nil {
		t.Error("want error for a missing template")
	}
}
