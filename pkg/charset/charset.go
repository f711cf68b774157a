// Package charset decodes the printer character set used on card memory
// and in station responses into Go strings.
package charset

// printerRemap maps the single-byte "printer charset" codes SPORTident
// stations emit (a CP437-flavored table) onto the Latin-1 code point with
// the same glyph, so the bytes can be decoded as ISO-8859-1 afterwards.
var printerRemap = map[byte]byte{
	0x80: 0xC7, 0x81: 0xFC, 0x82: 0xE9, 0x83: 0xE2, 0x84: 0xE4,
	0x85: 0xE0, 0x86: 0xE5, 0x87: 0xE7, 0x88: 0xEA, 0x89: 0xEB,
	0x8A: 0xE8, 0x8B: 0xEF, 0x8C: 0xEE, 0x8D: 0xEC, 0x8E: 0xC4,
	0x8F: 0xC5, 0x90: 0xC9, 0x91: 0xE6, 0x92: 0xC6, 0x93: 0xF4,
	0x94: 0xF6, 0x95: 0xF2, 0x96: 0xFB, 0x97: 0xF9, 0x98: 0xFF,
	0x99: 0xD6, 0x9A: 0xDC, 0xA0: 0xE1, 0xA1: 0xED, 0xA2: 0xF3,
	0xA3: 0xFA, 0xA4: 0xF1, 0xA5: 0xD1, 0xE1: 0xDF,
}

// RemapPrinterCharset returns a copy of data with every printer-charset
// byte replaced by its Latin-1 equivalent; bytes absent from the table
// pass through unchanged.
func RemapPrinterCharset(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		if r, ok := printerRemap[b]; ok {
			out[i] = r
		} else {
			out[i] = b
		}
	}
	return out
}

// DecodeLatin1 decodes ISO-8859-1 bytes into a UTF-8 string. Every byte
// value 0x00-0xFF maps onto the Unicode code point of the same value, so
// this can never fail.
func DecodeLatin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

// DecodePrinterCharset remaps then decodes in one step; this is the shape
// every personal-data field goes through.
func DecodePrinterCharset(data []byte) string {
	return DecodeLatin1(RemapPrinterCharset(data))
}
