package pdfcpudoc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nao1215/pdfscrub/internal/docmodel"
)

// xmpDict is a read-only enumerable view over an XMP packet. Element
// names keep their namespace prefix ("xmp:CreatorTool", "dc:creator")
// so findings name the exact leaking property. Mutation goes through
// Document.DeleteXMP; per-property edits are not supported because a
// partially rewritten packet is indistinguishable from a leak.
type xmpDict struct {
	props map[string]string
}

// newXMPDict extracts simple-text properties from a raw XMP packet.
// Malformed XML is tolerated: whatever parsed before the error is kept,
// because a broken packet still leaks whatever it contains.
func newXMPDict(raw []byte) *xmpDict {
	props := map[string]string{}

	dec := xml.NewDecoder(bytes.NewReader(raw))
	var stack []string
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF || err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, qualifiedName(t.Name))
			text.Reset()
			for _, attr := range t.Attr {
				if attr.Value == "" || attr.Name.Space == "xmlns" {
					continue
				}
				name := qualifiedName(attr.Name)
				if strings.Contains(name, ":") {
					props[name] = attr.Value
				}
			}
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			name := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			value := strings.TrimSpace(text.String())
			if value != "" && strings.Contains(name, ":") {
				props[name] = value
			}
			text.Reset()
		}
	}

	return &xmpDict{props: props}
}

// namespacePrefixes maps the XMP namespace URIs back to their
// conventional prefixes. The XML decoder resolves prefixes to URIs, but
// findings are far more readable as "xmp:CreatorTool" than as the URI.
var namespacePrefixes = map[string]string{
	"adobe:ns:meta/":                                "x",
	"http://ns.adobe.com/xap/1.0/":                  "xmp",
	"http://ns.adobe.com/xap/1.0/mm/":               "xmpMM",
	"http://ns.adobe.com/pdf/1.3/":                  "pdf",
	"http://purl.org/dc/elements/1.1/":              "dc",
	"http://www.w3.org/1999/02/22-rdf-syntax-ns#":   "rdf",
	"http://ns.adobe.com/photoshop/1.0/":            "photoshop",
	"http://ns.adobe.com/xap/1.0/rights/":           "xmpRights",
	"http://ns.adobe.com/pdfx/1.3/":                 "pdfx",
	"http://www.aiim.org/pdfa/ns/id/":               "pdfaid",
}

// qualifiedName renders an XML name with its conventional namespace
// prefix, falling back to the raw URI for unknown namespaces.
func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	if prefix, known := namespacePrefixes[n.Space]; known {
		return prefix + ":" + n.Local
	}
	return n.Space + ":" + n.Local
}

// Keys returns the packet's property names sorted.
func (x *xmpDict) Keys() []string {
	keys := make([]string, 0, len(x.props))
	for k := range x.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether the packet carries the property.
func (x *xmpDict) Has(key string) bool {
	_, found := x.props[key]
	return found
}

// String returns the property's text value.
func (x *xmpDict) String(key string) (string, bool) {
	v, found := x.props[key]
	return v, found
}

// SetName is rejected: the packet view is read-only.
func (x *xmpDict) SetName(key, name string) error {
	return fmt.Errorf("%w: xmp %s", docmodel.ErrReadOnlyKey, key)
}

// SetString is rejected: the packet view is read-only.
func (x *xmpDict) SetString(key, value string) error {
	return fmt.Errorf("%w: xmp %s", docmodel.ErrReadOnlyKey, key)
}

// Delete is rejected: the packet is removed whole via DeleteXMP.
func (x *xmpDict) Delete(key string) error {
	return fmt.Errorf("%w: xmp %s", docmodel.ErrReadOnlyKey, key)
}

// Dict is not applicable to the packet view.
func (x *xmpDict) Dict(key string) (docmodel.Dict, bool) {
	return nil, false
}

// DictArray is not applicable to the packet view.
func (x *xmpDict) DictArray(key string) ([]docmodel.Dict, bool) {
	return nil, false
}

// SetDictArray is rejected: the packet view is read-only.
func (x *xmpDict) SetDictArray(key string, items []docmodel.Dict) error {
	return fmt.Errorf("%w: xmp %s", docmodel.ErrReadOnlyKey, key)
}
