package validate

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// decodeText normalizes a PDF text string for display. Strings written
// as UTF-16 keep their big-endian BOM when read raw; decode those, pass
// everything else through unchanged.
func decodeText(s string) string {
	if !strings.HasPrefix(s, "\xfe\xff") {
		return s
	}
	decoder := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	decoded, err := decoder.String(s)
	if err != nil {
		return s
	}
	return decoded
}
