package pdfcpudoc

import (
	"fmt"
	"sort"

	"github.com/nao1215/pdfscrub/internal/docmodel"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Document is a mutable session over one parsed PDF.
type Document struct {
	ctx *model.Context
}

// Pages returns every page dictionary in object-number order. Object
// number order is not guaranteed to match reading order, but sanitizer
// passes visit every page regardless, so a stable order is all that is
// required.
func (d *Document) Pages() ([]docmodel.Dict, error) {
	if d.ctx == nil {
		return nil, fmt.Errorf("%w: document closed", docmodel.ErrParse)
	}

	var pages []docmodel.Dict
	for _, nr := range d.sortedObjectNumbers() {
		entry := d.ctx.XRefTable.Table[nr]
		if entry == nil || entry.Free || entry.Object == nil {
			continue
		}
		pd, ok := entry.Object.(types.Dict)
		if !ok {
			continue
		}
		if typ, found := pd["Type"]; found && typ == types.Name("Page") {
			pages = append(pages, &dict{d: pd, xref: d.ctx.XRefTable})
		}
	}
	return pages, nil
}

// Root returns the document catalog.
func (d *Document) Root() (docmodel.Dict, error) {
	if d.ctx == nil || d.ctx.XRefTable.Root == nil {
		return nil, fmt.Errorf("%w: missing catalog", docmodel.ErrParse)
	}
	rd, err := d.ctx.XRefTable.DereferenceDict(*d.ctx.XRefTable.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: catalog: %v", docmodel.ErrParse, err)
	}
	return &dict{d: rd, xref: d.ctx.XRefTable}, nil
}

// Trailer returns a view over the trailer's Root and Info references.
func (d *Document) Trailer() (docmodel.Dict, error) {
	if d.ctx == nil {
		return nil, fmt.Errorf("%w: document closed", docmodel.ErrParse)
	}
	return &trailerDict{xref: d.ctx.XRefTable}, nil
}

// Info returns the document-info dictionary, or an inert empty
// dictionary when the document has none.
func (d *Document) Info() (docmodel.Dict, error) {
	if d.ctx == nil {
		return nil, fmt.Errorf("%w: document closed", docmodel.ErrParse)
	}
	if d.ctx.XRefTable.Info == nil {
		return &dict{d: types.Dict{}, xref: d.ctx.XRefTable}, nil
	}
	id, err := d.ctx.XRefTable.DereferenceDict(*d.ctx.XRefTable.Info)
	if err != nil {
		return &dict{d: types.Dict{}, xref: d.ctx.XRefTable}, nil
	}
	return &dict{d: id, xref: d.ctx.XRefTable}, nil
}

// Objects returns every live object. Stream objects expose their
// decoded content; a stream whose filter chain cannot be decoded
// reports no readable bytes so undecodable content is skipped rather
// than mismeasured.
func (d *Document) Objects() ([]docmodel.Object, error) {
	if d.ctx == nil {
		return nil, fmt.Errorf("%w: document closed", docmodel.ErrParse)
	}

	var objects []docmodel.Object
	for _, nr := range d.sortedObjectNumbers() {
		entry := d.ctx.XRefTable.Table[nr]
		if entry == nil || entry.Free || entry.Object == nil {
			continue
		}
		objects = append(objects, &object{nr: nr, obj: entry.Object})
	}
	return objects, nil
}

// XMP returns the document's XMP packet as an enumerable view.
func (d *Document) XMP() (docmodel.Dict, error) {
	raw, err := d.xmpPacket()
	if err != nil {
		return nil, err
	}
	return newXMPDict(raw), nil
}

// DeleteXMP drops the Metadata reference from the catalog. The packet
// object itself is orphaned and disappears when the file is written.
func (d *Document) DeleteXMP() error {
	if d.ctx == nil {
		return fmt.Errorf("%w: document closed", docmodel.ErrParse)
	}
	if d.ctx.XRefTable.Root == nil {
		return nil
	}
	rd, err := d.ctx.XRefTable.DereferenceDict(*d.ctx.XRefTable.Root)
	if err != nil {
		return nil
	}
	delete(rd, "Metadata")
	return nil
}

// Save writes the mutated document to path.
func (d *Document) Save(path string) error {
	if d.ctx == nil {
		return fmt.Errorf("%w: document closed", docmodel.ErrWrite)
	}
	if err := api.WriteContextFile(d.ctx, path); err != nil {
		return fmt.Errorf("%w: %s: %v", docmodel.ErrWrite, path, err)
	}
	return nil
}

// Close releases the session without saving.
func (d *Document) Close() error {
	d.ctx = nil
	return nil
}

// xmpPacket locates and decodes the catalog's Metadata stream.
func (d *Document) xmpPacket() ([]byte, error) {
	if d.ctx == nil {
		return nil, fmt.Errorf("%w: document closed", docmodel.ErrParse)
	}
	if d.ctx.XRefTable.Root == nil {
		return nil, docmodel.ErrNoXMP
	}
	rd, err := d.ctx.XRefTable.DereferenceDict(*d.ctx.XRefTable.Root)
	if err != nil {
		return nil, docmodel.ErrNoXMP
	}
	ref, found := rd["Metadata"]
	if !found {
		return nil, docmodel.ErrNoXMP
	}

	obj, err := d.ctx.XRefTable.Dereference(ref)
	if err != nil {
		return nil, docmodel.ErrNoXMP
	}
	sd, ok := obj.(types.StreamDict)
	if !ok {
		if psd, isPtr := obj.(*types.StreamDict); isPtr {
			sd = *psd
		} else {
			return nil, docmodel.ErrNoXMP
		}
	}
	if err := sd.Decode(); err != nil {
		return sd.Raw, nil
	}
	return sd.Content, nil
}

// sortedObjectNumbers returns the cross-reference table keys in
// ascending order for deterministic traversal.
func (d *Document) sortedObjectNumbers() []int {
	numbers := make([]int, 0, len(d.ctx.XRefTable.Table))
	for nr := range d.ctx.XRefTable.Table {
		numbers = append(numbers, nr)
	}
	sort.Ints(numbers)
	return numbers
}

// object adapts one cross-reference entry to the document model.
type object struct {
	nr  int
	obj types.Object
}

// ID identifies the object for entropy reports.
func (o *object) ID() string {
	return fmt.Sprintf("obj %d", o.nr)
}

// RawBytes returns the object's readable content. Streams are decoded
// first so Flate-compressed images are measured on their true bytes;
// an undecodable stream reports no content.
func (o *object) RawBytes() ([]byte, bool) {
	switch v := o.obj.(type) {
	case types.StreamDict:
		if err := v.Decode(); err != nil {
			return nil, false
		}
		return v.Content, true
	case *types.StreamDict:
		if err := v.Decode(); err != nil {
			return nil, false
		}
		return v.Content, true
	case types.StringLiteral:
		return []byte(v.Value()), true
	case types.HexLiteral:
		return []byte(v.Value()), true
	default:
		return nil, false
	}
}
