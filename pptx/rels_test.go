package pptx

import "testing"

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		source string
		target string
		want   string
	}{
		{"ppt/presentation.xml", "slides/slide1.xml", "ppt/slides/slide1.xml"},
		{"ppt/slides/slide1.xml", "../media/image1.png", "ppt/media/image1.png"},
		{"ppt/slides/slide1.xml", "/docProps/thumbnail.jpeg", "docProps/thumbnail.jpeg"},
	}
	for _, tt := range tests {
		if got := resolveTarget(tt.source, tt.target); got != tt.want {
			t.Errorf("resolveTarget(%q, %q) = %q, want %q", tt.source, tt.target, got, tt.want)
		}
	}
}

func TestRelativeTarget(t *testing.T) {
	tests := []struct {
		source string
		target string
		want   string
	}{
		{"ppt/presentation.xml", "ppt/slides/slide1.xml", "slides/slide1.xml"},
		{"ppt/slides/slide1.xml", "ppt/media/image1.png", "../media/image1.png"},
		{"ppt/slides/slide1.xml", "ppt/slides/slide2.xml", "slide2.xml"},
	}
	for _, tt := range tests {
		if got := relativeTarget(tt.source, tt.target); got != tt.want {
			t.Errorf("relativeTarget(%q, %q) = %q, want %q", tt.source, tt.target, got, tt.want)
		}
	}
}

func TestRelationships(t *testing.T) {
	r := emptyRels()
	id := r.add(RelTypeImage, "../media/image1.png")
	if want := "rId1"; id != want {
		t.Errorf("id = %q, want %q", id, want)
	}
	if got := r.add(RelTypeSlide, "slides/slide1.xml"); got != "rId2" {
		t.Errorf("id = %q, want %q", got, "rId2")
	}

	found, ok := r.findTarget(RelTypeImage, "../media/image1.png")
	if !ok || found != id {
		t.Errorf("findTarget = %q, %v, want %q, true", found, ok, id)
	}

	r.remove(id)
	if r.byID(id) != nil {
		t.Error("want relationship to be removed")
	}
	if _, ok := r.findTarget(RelTypeImage, "../media/image1.png"); ok {
		t.Error("want no match after remove")
	}
}

func TestNextID(t *testing.T) {
	r := &Relationships{Xmlns: relsXmlns, Items: []*Relationship{
		{ID: "rId1"},
		{ID: "rId7"},
		{ID: "layoutRel"},
	}}
	if got := r.nextID(); got != "rId8" {
		t.Errorf("nextID = %q, want %q", got, "rId8")
	}
}

func TestRelsPartFor(t *testing.T) {
	tests := []struct {
		part string
		want string
	}{
		{"ppt/slides/slide1.xml", "ppt/slides/_rels/slide1.xml.rels"},
		{"ppt/presentation.xml", "ppt/_rels/presentation.xml.rels"},
	}
	for _, tt := range tests {
		if got := relsPartFor(tt.part); got != tt.want {
			t.Errorf("relsPartFor(%q) = %q, want %q", tt.part, got, tt.want)
		}
	}
}
