package prez

import "fmt"

// InvalidSpecError reports a slide spec that cannot be rendered: an unknown
// type, a malformed content entry, or a missing required field. Index is the
// zero-based position of the spec in the deck.
type InvalidSpecError struct {
	Index  int
	Type   SlideType
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid slide spec at index %d (type %q): %s", e.Index, e.Type, e.Reason)
}

// TemplateStructureError reports a template document that lacks the expected
// archetype slides at their fixed positions.
type TemplateStructureError struct {
	Path   string
	Reason string
}

func (e *TemplateStructureError) Error() string {
	return fmt.Sprintf("broken template %s: %s", e.Path, e.Reason)
}

// AssetNotFoundError reports a referenced image path that does not exist.
// Generation treats it as non-fatal: the slide is rendered without the image.
type AssetNotFoundError struct {
	Path string
}

func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("asset not found: %s", e.Path)
}
