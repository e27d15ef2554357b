package pptx

import (
	"encoding/xml"
	"fmt"

	"github.com/k1LoW/errors"
)

const (
	typesXmlns = "http://schemas.openxmlformats.org/package/2006/content-types"

	contentTypeSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	contentTypePresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
)

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

// contentTypes is the [Content_Types].xml part.
type contentTypes struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []*ctDefault  `xml:"Default"`
	Overrides []*ctOverride `xml:"Override"`
}

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

func parseContentTypes(b []byte) (_ *contentTypes, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	ct := &contentTypes{}
	if err := xml.Unmarshal(b, ct); err != nil {
		return nil, fmt.Errorf("failed to parse content types: %w", err)
	}
	ct.Xmlns = typesXmlns
	return ct, nil
}

// ensureDefault registers a Default mapping for the extension if absent.
func (ct *contentTypes) ensureDefault(ext, contentType string) {
	for _, d := range ct.Defaults {
		if d.Extension == ext {
			return
		}
	}
	ct.Defaults = append(ct.Defaults, &ctDefault{Extension: ext, ContentType: contentType})
}

// addOverride registers an Override for the part. Part names here carry a
// leading slash, per OPC convention.
func (ct *contentTypes) addOverride(partName, contentType string) {
	for _, o := range ct.Overrides {
		if o.PartName == partName {
			o.ContentType = contentType
			return
		}
	}
	ct.Overrides = append(ct.Overrides, &ctOverride{PartName: partName, ContentType: contentType})
}

func (ct *contentTypes) removeOverride(partName string) {
	for i, o := range ct.Overrides {
		if o.PartName == partName {
			ct.Overrides = append(ct.Overrides[:i], ct.Overrides[i+1:]...)
			return
		}
	}
}

func (ct *contentTypes) render() (_ []byte, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	b, err := xml.Marshal(ct)
	if err != nil {
		return nil, fmt.Errorf("failed to render content types: %w", err)
	}
	return append([]byte(xmlHeader), b...), nil
}
