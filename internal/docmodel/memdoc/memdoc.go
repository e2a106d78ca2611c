// Package memdoc provides a deterministic in-memory implementation of the
// docmodel interfaces for test fixtures.
//
// Real engines produce bytes we cannot control: writers re-emit producer
// strings, compress streams, and reorder objects. Fixture tests for the
// byte-level scanner and the forensic validator need documents whose
// serialized form is fully predictable, so memdoc serializes its object
// graph into a stable PDF-shaped byte layout and keeps a registry of saved
// documents so candidates written by one component can be reopened by the
// next.
//
// memdoc also exposes failure knobs (FailOpen, FailRebuild, FailRewrite,
// and per-document FailSave) so orchestration tests can simulate parse and
// write errors on demand.
package memdoc

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/nao1215/pdfscrub/internal/docmodel"
)

// valueKind discriminates the value types a Dict can hold.
type valueKind int

const (
	kindName valueKind = iota
	kindString
	kindDict
	kindArray
)

// value is a single dictionary entry.
type value struct {
	kind valueKind
	str  string
	dict *Dict
	arr  []*Dict
}

// Dict is the memdoc implementation of docmodel.Dict.
// Insertion order is preserved so serialization is deterministic.
type Dict struct {
	order    []string
	values   map[string]value
	readOnly map[string]bool
}

// NewDict returns an empty dictionary.
func NewDict() *Dict {
	return &Dict{
		values:   make(map[string]value),
		readOnly: make(map[string]bool),
	}
}

// Keys returns keys in insertion order.
func (d *Dict) Keys() []string {
	keys := make([]string, len(d.order))
	copy(keys, d.order)
	return keys
}

// Has reports whether key is present.
func (d *Dict) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// String returns the stringified value for key.
func (d *Dict) String(key string) (string, bool) {
	v, ok := d.values[key]
	if !ok {
		return "", false
	}
	switch v.kind {
	case kindName, kindString:
		return v.str, true
	default:
		return "", false
	}
}

// SetName stores a name-typed value.
func (d *Dict) SetName(key, name string) error {
	if d.readOnly[key] {
		return fmt.Errorf("memdoc: set %q: %w", key, docmodel.ErrReadOnlyKey)
	}
	d.set(key, value{kind: kindName, str: name})
	return nil
}

// SetString stores a text-string value.
func (d *Dict) SetString(key, val string) error {
	if d.readOnly[key] {
		return fmt.Errorf("memdoc: set %q: %w", key, docmodel.ErrReadOnlyKey)
	}
	d.set(key, value{kind: kindString, str: val})
	return nil
}

// Delete removes key. Absent keys are a no-op.
func (d *Dict) Delete(key string) error {
	if d.readOnly[key] {
		return fmt.Errorf("memdoc: delete %q: %w", key, docmodel.ErrReadOnlyKey)
	}
	if _, ok := d.values[key]; !ok {
		return nil
	}
	delete(d.values, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return nil
}

// Dict returns the nested dictionary under key.
func (d *Dict) Dict(key string) (docmodel.Dict, bool) {
	v, ok := d.values[key]
	if !ok || v.kind != kindDict {
		return nil, false
	}
	return v.dict, true
}

// DictArray returns the dictionary array under key.
func (d *Dict) DictArray(key string) ([]docmodel.Dict, bool) {
	v, ok := d.values[key]
	if !ok || v.kind != kindArray {
		return nil, false
	}
	items := make([]docmodel.Dict, len(v.arr))
	for i, item := range v.arr {
		items[i] = item
	}
	return items, true
}

// SetDictArray replaces the array under key. Items must be memdoc dicts.
func (d *Dict) SetDictArray(key string, items []docmodel.Dict) error {
	if d.readOnly[key] {
		return fmt.Errorf("memdoc: set %q: %w", key, docmodel.ErrReadOnlyKey)
	}
	arr := make([]*Dict, 0, len(items))
	for _, item := range items {
		md, ok := item.(*Dict)
		if !ok {
			return fmt.Errorf("memdoc: set %q: foreign dict implementation", key)
		}
		arr = append(arr, md)
	}
	d.set(key, value{kind: kindArray, arr: arr})
	return nil
}

// SetDict stores a nested dictionary. memdoc-only fixture helper.
func (d *Dict) SetDict(key string, nested *Dict) {
	d.set(key, value{kind: kindDict, dict: nested})
}

// MarkReadOnly makes key reject mutations, simulating engines that expose
// read-only fields.
func (d *Dict) MarkReadOnly(key string) {
	d.readOnly[key] = true
}

func (d *Dict) set(key string, v value) {
	if _, ok := d.values[key]; !ok {
		d.order = append(d.order, key)
	}
	d.values[key] = v
}

func (d *Dict) clone() *Dict {
	c := NewDict()
	for _, key := range d.order {
		v := d.values[key]
		switch v.kind {
		case kindDict:
			c.set(key, value{kind: kindDict, dict: v.dict.clone()})
		case kindArray:
			arr := make([]*Dict, len(v.arr))
			for i, item := range v.arr {
				arr[i] = item.clone()
			}
			c.set(key, value{kind: kindArray, arr: arr})
		default:
			c.set(key, v)
		}
	}
	for key := range d.readOnly {
		c.readOnly[key] = true
	}
	return c
}

// Stream is a low-level object carrying raw bytes.
type Stream struct {
	id         string
	raw        []byte
	unreadable bool
}

// ID implements docmodel.Object.
func (s *Stream) ID() string { return s.id }

// RawBytes implements docmodel.Object.
func (s *Stream) RawBytes() ([]byte, bool) {
	if s.unreadable {
		return nil, false
	}
	return s.raw, true
}

// Backend is the memdoc implementation of docmodel.Backend. Saved
// documents are registered by path so subsequent Open calls resolve them
// without parsing.
type Backend struct {
	mu   sync.Mutex
	docs map[string]*Document

	// FailOpen, when set, is returned by every Open call.
	FailOpen error

	// FailRebuild, when set, is returned by every Rebuild call.
	FailRebuild error

	// FailRewrite, when set, is returned by every RewritePages call.
	FailRewrite error

	// WriterProducer, when non-empty, is injected as a Producer info entry
	// by RewritePages, simulating writers that re-emit their own metadata.
	WriterProducer string
}

// NewBackend returns an empty backend registry.
func NewBackend() *Backend {
	return &Backend{docs: make(map[string]*Document)}
}

// Open implements docmodel.Backend. Paths never saved through this
// backend are resolved by content: the pipeline copies accepted
// candidates byte for byte, and the copy must reopen as the document
// it was copied from.
func (b *Backend) Open(path string) (docmodel.Document, error) {
	if b.FailOpen != nil {
		return nil, b.FailOpen
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if doc, ok := b.docs[path]; ok {
		return doc.clone(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("memdoc: open %s: not a registered document: %w", path, docmodel.ErrParse)
	}
	for _, registered := range b.docs {
		if bytes.Equal(registered.Serialize(), data) {
			b.docs[path] = registered.clone()
			return registered.clone(), nil
		}
	}
	return nil, fmt.Errorf("memdoc: open %s: not a registered document: %w", path, docmodel.ErrParse)
}

// Rebuild implements docmodel.Backend.
func (b *Backend) Rebuild(input, output string) error {
	if b.FailRebuild != nil {
		return b.FailRebuild
	}
	src, err := b.Open(input)
	if err != nil {
		return err
	}
	doc := src.(*Document)
	fresh := New(b)
	fresh.pages = clonePages(doc.pages)
	fresh.streams = cloneStreams(doc.streams)
	return fresh.Save(output)
}

// RewritePages implements docmodel.Backend.
func (b *Backend) RewritePages(input, output string) error {
	if b.FailRewrite != nil {
		return b.FailRewrite
	}
	src, err := b.Open(input)
	if err != nil {
		return err
	}
	doc := src.(*Document)
	fresh := New(b)
	fresh.pages = clonePages(doc.pages)
	fresh.streams = cloneStreams(doc.streams)
	if b.WriterProducer != "" {
		fresh.SetInfo("Producer", b.WriterProducer)
	}
	return fresh.Save(output)
}

func (b *Backend) register(path string, doc *Document) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.docs[path] = doc.clone()
}

// Document is the memdoc implementation of docmodel.Document.
type Document struct {
	backend *Backend
	pages   []*Dict
	root    *Dict
	trailer *Dict
	info    *Dict
	xmp     *Dict
	streams []*Stream

	// FailSave, when set, is returned by Save, simulating write errors.
	FailSave error
}

// New returns an empty document bound to the backend registry.
func New(b *Backend) *Document {
	root := NewDict()
	_ = root.SetName("Type", "Catalog")
	trailer := NewDict()
	_ = trailer.SetName("Root", "1 0 R")
	return &Document{
		backend: b,
		root:    root,
		trailer: trailer,
	}
}

// AddPage appends a page dictionary and returns it for customization.
func (d *Document) AddPage() *Dict {
	page := NewDict()
	_ = page.SetName("Type", "Page")
	d.pages = append(d.pages, page)
	return page
}

// SetInfo stores an info-dictionary entry, creating the info dictionary
// and its trailer reference on first use.
func (d *Document) SetInfo(key, val string) {
	if d.info == nil {
		d.info = NewDict()
		_ = d.trailer.SetName("Info", "2 0 R")
	}
	_ = d.info.SetString(key, val)
}

// SetXMP stores an XMP packet entry ("pdf:Producer", "xmp:CreatorTool", ...).
func (d *Document) SetXMP(key, val string) {
	if d.xmp == nil {
		d.xmp = NewDict()
	}
	_ = d.xmp.SetString(key, val)
}

// AddStream attaches a low-level object with raw bytes.
func (d *Document) AddStream(id string, data []byte) {
	d.streams = append(d.streams, &Stream{id: id, raw: data})
}

// AddUnreadableStream attaches an object whose bytes cannot be read.
func (d *Document) AddUnreadableStream(id string) {
	d.streams = append(d.streams, &Stream{id: id, unreadable: true})
}

// Pages implements docmodel.Document.
func (d *Document) Pages() ([]docmodel.Dict, error) {
	pages := make([]docmodel.Dict, len(d.pages))
	for i, p := range d.pages {
		pages[i] = p
	}
	return pages, nil
}

// Root implements docmodel.Document.
func (d *Document) Root() (docmodel.Dict, error) { return d.root, nil }

// Trailer implements docmodel.Document.
func (d *Document) Trailer() (docmodel.Dict, error) { return d.trailer, nil }

// Info implements docmodel.Document.
func (d *Document) Info() (docmodel.Dict, error) {
	if d.info == nil {
		d.info = NewDict()
	}
	return d.info, nil
}

// Objects implements docmodel.Document.
func (d *Document) Objects() ([]docmodel.Object, error) {
	objs := make([]docmodel.Object, len(d.streams))
	for i, s := range d.streams {
		objs[i] = s
	}
	return objs, nil
}

// XMP implements docmodel.Document.
func (d *Document) XMP() (docmodel.Dict, error) {
	if d.xmp == nil {
		return nil, docmodel.ErrNoXMP
	}
	return d.xmp, nil
}

// DeleteXMP implements docmodel.Document.
func (d *Document) DeleteXMP() error {
	d.xmp = nil
	return nil
}

// Save serializes the document, writes it to path, and registers the
// snapshot so the backend can reopen it.
func (d *Document) Save(path string) error {
	if d.FailSave != nil {
		return d.FailSave
	}
	data := d.Serialize()
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("memdoc: save %s: %w: %w", path, docmodel.ErrWrite, err)
	}
	d.backend.register(path, d)
	return nil
}

// Close implements docmodel.Document. memdoc handles hold no resources.
func (d *Document) Close() error { return nil }

func (d *Document) clone() *Document {
	c := &Document{
		backend: d.backend,
		pages:   clonePages(d.pages),
		root:    d.root.clone(),
		trailer: d.trailer.clone(),
		streams: cloneStreams(d.streams),
	}
	if d.info != nil {
		c.info = d.info.clone()
	}
	if d.xmp != nil {
		c.xmp = d.xmp.clone()
	}
	return c
}

func clonePages(pages []*Dict) []*Dict {
	out := make([]*Dict, len(pages))
	for i, p := range pages {
		out[i] = p.clone()
	}
	return out
}

func cloneStreams(streams []*Stream) []*Stream {
	out := make([]*Stream, len(streams))
	for i, s := range streams {
		raw := make([]byte, len(s.raw))
		copy(raw, s.raw)
		out[i] = &Stream{id: s.id, raw: raw, unreadable: s.unreadable}
	}
	return out
}

// sortedXMPKeys keeps XMP serialization stable across runs.
func sortedXMPKeys(d *Dict) []string {
	keys := d.Keys()
	sort.Strings(keys)
	return keys
}
