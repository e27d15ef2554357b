package pptx

import (
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/k1LoW/errors"
)

// Relationship types used by the generator.
const (
	RelTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	RelTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	RelTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

const relsXmlns = "http://schemas.openxmlformats.org/package/2006/relationships"

// Relationships is the content of a .rels part.
type Relationships struct {
	XMLName xml.Name        `xml:"Relationships"`
	Xmlns   string          `xml:"xmlns,attr"`
	Items   []*Relationship `xml:"Relationship"`
}

// Relationship is a single relationship entry.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

func parseRels(b []byte) (_ *Relationships, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	r := &Relationships{}
	if err := xml.Unmarshal(b, r); err != nil {
		return nil, fmt.Errorf("failed to parse relationships: %w", err)
	}
	r.Xmlns = relsXmlns
	return r, nil
}

func emptyRels() *Relationships {
	return &Relationships{Xmlns: relsXmlns}
}

func (r *Relationships) clone() *Relationships {
	c := &Relationships{Xmlns: r.Xmlns}
	for _, item := range r.Items {
		dup := *item
		c.Items = append(c.Items, &dup)
	}
	return c
}

func (r *Relationships) byID(id string) *Relationship {
	for _, item := range r.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// add appends a relationship with the next free rId and returns the id.
func (r *Relationships) add(typ, target string) string {
	id := r.nextID()
	r.Items = append(r.Items, &Relationship{ID: id, Type: typ, Target: target})
	return id
}

func (r *Relationships) remove(id string) {
	for i, item := range r.Items {
		if item.ID == id {
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			return
		}
	}
}

// findTarget returns the id of an existing relationship with the given type
// and target, if any.
func (r *Relationships) findTarget(typ, target string) (string, bool) {
	for _, item := range r.Items {
		if item.Type == typ && item.Target == target {
			return item.ID, true
		}
	}
	return "", false
}

func (r *Relationships) nextID() string {
	max := 0
	for _, item := range r.Items {
		n, err := strconv.Atoi(strings.TrimPrefix(item.ID, "rId"))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("rId%d", max+1)
}

func (r *Relationships) render() (_ []byte, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	b, err := xml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to render relationships: %w", err)
	}
	return append([]byte(xmlHeader), b...), nil
}

// resolveTarget resolves a relationship target relative to its source part.
// A leading "/" marks a package-absolute target.
func resolveTarget(sourcePart, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(path.Dir(sourcePart), target))
}

// relativeTarget returns target as a path relative to the source part's
// directory, the form relationship targets are written in.
func relativeTarget(sourcePart, target string) string {
	rel, err := relPath(path.Dir(sourcePart), target)
	if err != nil {
		return "/" + target
	}
	return rel
}

func relPath(fromDir, to string) (string, error) {
	from := strings.Split(path.Clean(fromDir), "/")
	dest := strings.Split(path.Clean(to), "/")
	common := 0
	for common < len(from) && common < len(dest) && from[common] == dest[common] {
		common++
	}
	var parts []string
	for i := common; i < len(from); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, dest[common:]...)
	if len(parts) == 0 {
		return "", fmt.Errorf("no relative path from %s to %s", fromDir, to)
	}
	return path.Join(parts...), nil
}

// relsPartFor returns the name of the .rels part holding relationships for
// the given part, e.g. ppt/slides/slide1.xml -> ppt/slides/_rels/slide1.xml.rels.
func relsPartFor(part string) string {
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}
