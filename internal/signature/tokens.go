package signature

// MetadataKeyTokens are the canonical info-dictionary key tokens whose
// value spans are searched for vendor tokens by the scoped scrub and
// reported by detection.
var MetadataKeyTokens = [][]byte{
	[]byte("/Producer"),
	[]byte("/Creator"),
	[]byte("/Author"),
	[]byte("/Title"),
	[]byte("/Subject"),
	[]byte("/Keywords"),
	[]byte("/Application"),
	[]byte("/CreationDate"),
	[]byte("/ModDate"),
}

// XMPMarkers identify an XMP metadata packet or its namespaces in raw
// bytes. Any of them surviving a scrub means the packet was not removed.
var XMPMarkers = [][]byte{
	[]byte("<?xpacket"),
	[]byte("<x:xmpmeta"),
	[]byte("xmp:"),
	[]byte("pdf:"),
	[]byte("dc:"),
}

// VendorTokens are producer-software names that identify the authoring
// tool even outside any structural metadata location.
var VendorTokens = [][]byte{
	[]byte("Adobe"),
	[]byte("ADOBE"),
	[]byte("adobe"),
	[]byte("Acrobat"),
	[]byte("acrobat"),
	[]byte("Microsoft"),
	[]byte("microsoft"),
}

// PostSaveTokens are the vendor tokens blanked unconditionally by the
// final pass over the written output file.
var PostSaveTokens = [][]byte{
	[]byte("Adobe"),
	[]byte("ADOBE"),
	[]byte("adobe"),
}
