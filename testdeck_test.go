package prez

import (
	"context"
	"path/filepath"
	"testing"
)

func TestTestDeck(t *testing.T) {
	df := TestDeck()
	if err := df.Slides.Validate(); err != nil {
		t.Fatal(err)
	}
	if want := "test_presentation"; df.Base != want {
		t.Errorf("Base = %q, want %q", df.Base, want)
	}
	if !df.Numbers {
		t.Error("want slide numbers on")
	}

	seen := map[SlideType]bool{}
	var hidden bool
	for _, s := range df.Slides {
		seen[s.Type] = true
		if s.Hidden {
			hidden = true
		}
	}
	for typ := range slideTypes {
		if !seen[typ] {
			t.Errorf("want the deck to cover type %q", typ)
		}
	}
	if !hidden {
		t.Error("want the deck to cover hidden slides")
	}
}

// The built-in deck renders end to end on a structurally valid template.
func TestTestDeckGenerates(t *testing.T) {
	tpl := writeTestTemplate(t, 3)
	out := filepath.Join(t.TempDir(), "out.pptx")
	g, err := New(WithSlideNumbers(true))
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Generate(context.Background(), out, tpl, TestDeck().Slides); err != nil {
		t.Fatal(err)
	}
}
