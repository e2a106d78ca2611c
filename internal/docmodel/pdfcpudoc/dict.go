package pdfcpudoc

import (
	"fmt"
	"sort"

	"github.com/nao1215/pdfscrub/internal/docmodel"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// dict adapts a pdfcpu dictionary to the document model. Mutations
// write through to the underlying map, so they land in the saved file.
type dict struct {
	d    types.Dict
	xref *model.XRefTable
}

// Keys returns the dictionary's keys sorted for stable traversal.
func (d *dict) Keys() []string {
	keys := make([]string, 0, len(d.d))
	for k := range d.d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is present.
func (d *dict) Has(key string) bool {
	_, found := d.d[key]
	return found
}

// String resolves the value under key to text. Indirect references are
// followed one level; values without a text form report ok=false.
func (d *dict) String(key string) (string, bool) {
	obj, found := d.d[key]
	if !found {
		return "", false
	}
	return d.stringify(obj)
}

// SetName stores a name value under key.
func (d *dict) SetName(key, name string) error {
	d.d[key] = types.Name(name)
	return nil
}

// SetString stores a text-string value under key.
func (d *dict) SetString(key, value string) error {
	d.d[key] = types.StringLiteral(value)
	return nil
}

// Delete removes key from the dictionary.
func (d *dict) Delete(key string) error {
	delete(d.d, key)
	return nil
}

// Dict returns the nested dictionary under key, following one indirect
// reference when needed.
func (d *dict) Dict(key string) (docmodel.Dict, bool) {
	obj, found := d.d[key]
	if !found {
		return nil, false
	}
	nd, ok := d.resolveDict(obj)
	if !ok {
		return nil, false
	}
	return &dict{d: nd, xref: d.xref}, true
}

// DictArray returns the dictionaries stored in the array under key.
// Non-dictionary array elements are skipped.
func (d *dict) DictArray(key string) ([]docmodel.Dict, bool) {
	obj, found := d.d[key]
	if !found {
		return nil, false
	}
	if ref, isRef := obj.(types.IndirectRef); isRef {
		resolved, err := d.xref.Dereference(ref)
		if err != nil {
			return nil, false
		}
		obj = resolved
	}
	arr, ok := obj.(types.Array)
	if !ok {
		return nil, false
	}

	items := make([]docmodel.Dict, 0, len(arr))
	for _, elem := range arr {
		nd, found := d.resolveDict(elem)
		if !found {
			continue
		}
		items = append(items, &dict{d: nd, xref: d.xref})
	}
	return items, true
}

// SetDictArray replaces the array under key. Items must originate from
// this backend.
func (d *dict) SetDictArray(key string, items []docmodel.Dict) error {
	arr := make(types.Array, 0, len(items))
	for _, item := range items {
		pd, ok := item.(*dict)
		if !ok {
			return fmt.Errorf("%w: foreign dictionary in array", docmodel.ErrWrite)
		}
		arr = append(arr, pd.d)
	}
	d.d[key] = arr
	return nil
}

// resolveDict unwraps obj to a dictionary, following one indirect
// reference when needed.
func (d *dict) resolveDict(obj types.Object) (types.Dict, bool) {
	switch v := obj.(type) {
	case types.Dict:
		return v, true
	case types.IndirectRef:
		nd, err := d.xref.DereferenceDict(v)
		if err != nil {
			return nil, false
		}
		return nd, true
	default:
		return nil, false
	}
}

// stringify renders a value as text. PDF text strings may be UTF-16
// with a BOM or PDFDocEncoded; pdfcpu's literal decoding handles both.
func (d *dict) stringify(obj types.Object) (string, bool) {
	if ref, isRef := obj.(types.IndirectRef); isRef {
		resolved, err := d.xref.Dereference(ref)
		if err != nil {
			return "", false
		}
		obj = resolved
	}

	switch v := obj.(type) {
	case types.StringLiteral:
		if s, err := types.StringLiteralToString(v); err == nil {
			return s, true
		}
		return v.Value(), true
	case types.HexLiteral:
		if s, err := types.HexLiteralToString(v); err == nil {
			return s, true
		}
		return v.Value(), true
	case types.Name:
		return v.Value(), true
	case types.Integer:
		return v.String(), true
	case types.Float:
		return v.String(), true
	case types.Boolean:
		return v.String(), true
	default:
		return "", false
	}
}

// trailerDict is a view over the trailer's Root and Info references.
// Root is structural and read-only; Info is deletable, which is how the
// structural-clear strategy severs the info dictionary.
type trailerDict struct {
	xref *model.XRefTable
}

// Keys lists the observable trailer keys.
func (t *trailerDict) Keys() []string {
	keys := make([]string, 0, 2)
	if t.xref.Root != nil {
		keys = append(keys, "Root")
	}
	if t.xref.Info != nil {
		keys = append(keys, "Info")
	}
	return keys
}

// Has reports whether the trailer carries key.
func (t *trailerDict) Has(key string) bool {
	switch key {
	case "Root":
		return t.xref.Root != nil
	case "Info":
		return t.xref.Info != nil
	default:
		return false
	}
}

// String renders the reference under key.
func (t *trailerDict) String(key string) (string, bool) {
	switch key {
	case "Root":
		if t.xref.Root != nil {
			return t.xref.Root.String(), true
		}
	case "Info":
		if t.xref.Info != nil {
			return t.xref.Info.String(), true
		}
	}
	return "", false
}

// SetName is rejected: trailer keys hold references, not names.
func (t *trailerDict) SetName(key, name string) error {
	return fmt.Errorf("%w: trailer %s", docmodel.ErrReadOnlyKey, key)
}

// SetString is rejected: trailer keys hold references, not strings.
func (t *trailerDict) SetString(key, value string) error {
	return fmt.Errorf("%w: trailer %s", docmodel.ErrReadOnlyKey, key)
}

// Delete severs the Info reference. Root is required for a readable
// document and stays read-only.
func (t *trailerDict) Delete(key string) error {
	switch key {
	case "Info":
		t.xref.Info = nil
		return nil
	case "Root":
		return fmt.Errorf("%w: trailer Root", docmodel.ErrReadOnlyKey)
	default:
		return nil
	}
}

// Dict resolves the dictionary a trailer reference points at.
func (t *trailerDict) Dict(key string) (docmodel.Dict, bool) {
	var ref *types.IndirectRef
	switch key {
	case "Root":
		ref = t.xref.Root
	case "Info":
		ref = t.xref.Info
	}
	if ref == nil {
		return nil, false
	}
	nd, err := t.xref.DereferenceDict(*ref)
	if err != nil {
		return nil, false
	}
	return &dict{d: nd, xref: t.xref}, true
}

// DictArray is not applicable to the trailer view.
func (t *trailerDict) DictArray(key string) ([]docmodel.Dict, bool) {
	return nil, false
}

// SetDictArray is rejected for the trailer view.
func (t *trailerDict) SetDictArray(key string, items []docmodel.Dict) error {
	return fmt.Errorf("%w: trailer %s", docmodel.ErrReadOnlyKey, key)
}
