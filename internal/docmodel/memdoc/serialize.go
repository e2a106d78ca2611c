package memdoc

import (
	"bytes"
	"fmt"
)

// Serialize renders the document into a stable PDF-shaped byte layout.
// The layout is intentionally simple: a header, the catalog, the info
// dictionary when referenced from the trailer, each page, the XMP packet
// when present, every raw stream, and the trailer. It is not a conformant
// PDF, but it exercises every byte pattern the scanner and validator look
// for, with none of the noise a real writer adds.
func (d *Document) Serialize() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%memdoc\n")

	objNr := 1
	writeObj := func(body string) {
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", objNr, body)
		objNr++
	}

	writeObj(serializeDict(d.root))

	if d.trailer.Has("Info") && d.info != nil {
		writeObj(serializeDict(d.info))
	}

	for _, page := range d.pages {
		writeObj(serializeDict(page))
	}

	if d.xmp != nil {
		var xmp bytes.Buffer
		xmp.WriteString("<< /Type /Metadata /Subtype /XML >>\nstream\n")
		xmp.WriteString("<?xpacket begin=\"\" id=\"W5M0MpCehiHzreSzNTczkc9d\"?>\n")
		xmp.WriteString("<x:xmpmeta xmlns:x=\"adobe:ns:meta/\">\n")
		for _, key := range sortedXMPKeys(d.xmp) {
			val, _ := d.xmp.String(key)
			fmt.Fprintf(&xmp, "<%s>%s</%s>\n", key, val, key)
		}
		xmp.WriteString("</x:xmpmeta>\n<?xpacket end=\"w\"?>\nendstream")
		writeObj(xmp.String())
	}

	for _, s := range d.streams {
		if s.unreadable {
			continue
		}
		fmt.Fprintf(&buf, "%d 0 obj\n<< /Length %d >>\nstream\n", objNr, len(s.raw))
		buf.Write(s.raw)
		buf.WriteString("\nendstream\nendobj\n")
		objNr++
	}

	buf.WriteString("trailer\n")
	buf.WriteString(serializeDict(d.trailer))
	buf.WriteString("\n%%EOF\n")
	return buf.Bytes()
}

// serializeDict renders a dictionary in insertion order.
func serializeDict(d *Dict) string {
	var buf bytes.Buffer
	buf.WriteString("<<")
	for _, key := range d.order {
		v := d.values[key]
		buf.WriteString(" /")
		buf.WriteString(key)
		buf.WriteByte(' ')
		switch v.kind {
		case kindName:
			// Trailer references ("1 0 R") are stored as names but
			// serialized verbatim.
			if isReference(v.str) {
				buf.WriteString(v.str)
			} else {
				buf.WriteByte('/')
				buf.WriteString(v.str)
			}
		case kindString:
			buf.WriteByte('(')
			buf.WriteString(v.str)
			buf.WriteByte(')')
		case kindDict:
			buf.WriteString(serializeDict(v.dict))
		case kindArray:
			buf.WriteString("[")
			for _, item := range v.arr {
				buf.WriteByte(' ')
				buf.WriteString(serializeDict(item))
			}
			buf.WriteString(" ]")
		}
	}
	buf.WriteString(" >>")
	return buf.String()
}

// isReference reports whether s looks like an indirect reference.
func isReference(s string) bool {
	if len(s) < 5 {
		return false
	}
	return s[len(s)-2:] == " R" && s[0] >= '0' && s[0] <= '9'
}
