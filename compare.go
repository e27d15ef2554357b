package prez

import (
	"reflect"
	"slices"
)

// Equal reports whether two deck files would generate the same output.
// Watch mode uses it to skip regeneration when a save did not change the
// deck's meaning.
func (df *DeckFile) Equal(other *DeckFile) bool {
	if df == nil || other == nil {
		return df == other
	}
	return df.Template == other.Template &&
		df.Base == other.Base &&
		intPtrEqual(df.Version, other.Version) &&
		df.Numbers == other.Numbers &&
		reflect.DeepEqual(df.Vars, other.Vars) &&
		df.Slides.Equal(other.Slides)
}

func (s Specs) Equal(other Specs) bool { //nostyle:recvtype
	return slices.EqualFunc(s, other, func(a, b *SlideSpec) bool {
		return a.Equal(b)
	})
}

func (s *SlideSpec) Equal(other *SlideSpec) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Type == other.Type &&
		s.Title == other.Title &&
		s.Subtitle == other.Subtitle &&
		contentEqual(s.Content, other.Content) &&
		contentEqual(s.Content2, other.Content2) &&
		s.Image == other.Image &&
		s.Hidden == other.Hidden
}

func contentEqual(c1, c2 []ContentItem) bool {
	return slices.EqualFunc(c1, c2, func(a, b ContentItem) bool {
		return a.Text == b.Text && a.Level == b.Level
	})
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
