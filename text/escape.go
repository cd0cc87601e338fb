// Package text provides the string escaping used to build the canonical form of
// a nostr event, from which the event id is derived.
package text

const hexDigits = "0123456789abcdef"

// NostrEscape for JSON encoding according to RFC8259.
//
// This follows the NIP-01 specification:
//
// To prevent implementation differences from creating a different event Id for
// the same event, the following rules MUST be followed while serializing:
//
//	No whitespace, line breaks or other unnecessary formatting should be included
//	in the output JSON. No characters except the following should be escaped, and
//	instead should be included verbatim:
//
//	- A line break, 0x0A, as \n
//	- A double quote, 0x22, as \"
//	- A backslash, 0x5C, as \\
//	- A carriage return, 0x0D, as \r
//	- A tab character, 0x09, as \t
//	- A backspace, 0x08, as \b
//	- A form feed, 0x0C, as \f
//
//	UTF-8 should be used for encoding.
//
// Other control characters below 0x20 cannot appear raw in JSON and are written
// as \u00XX, the same as every mainstream JSON encoder does.
func NostrEscape(dst []byte, src string) []byte {
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\r':
			dst = append(dst, '\\', 'r')
		default:
			if c < 0x20 {
				dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
				continue
			}
			dst = append(dst, c)
		}
	}
	return dst
}

// AppendQuote appends a string to dst wrapped in double quotes, escaped with
// NostrEscape.
func AppendQuote(dst []byte, src string) []byte {
	dst = append(dst, '"')
	dst = NostrEscape(dst, src)
	return append(dst, '"')
}
