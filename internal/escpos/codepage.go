package escpos

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

// decoderFor resolves a CodePage to the x/text decoder used to turn raw
// line bytes into a Unicode string at flush time. Per spec.md §4.4: code
// page 0 is CP437, 17/18 are Windows-1251/1250, 20/21/255 are Shift-JIS, and
// every other value (including the ones the design notes call out as having
// no exact single-byte equivalent — katakana, CP850/860/863/865/858) falls
// back to Windows-1252, matching the spec's own open-question resolution.
func decoderFor(cp CodePage) *encoding.Decoder {
	switch cp {
	case CodePageCP437:
		// x/text ships CP437 directly, unlike the original's bespoke table.
		return charmap.CodePage437.NewDecoder()
	case CodePageWindows1251:
		return charmap.Windows1251.NewDecoder()
	case CodePageWindows1250:
		return charmap.Windows1250.NewDecoder()
	case CodePageShiftJIS1, CodePageShiftJIS2, CodePageShiftJIS3:
		return japanese.ShiftJIS.NewDecoder()
	default:
		return charmap.Windows1252.NewDecoder()
	}
}

// decodeLine decodes raw printable bytes using the code page active at flush
// time. Decoding errors (a byte sequence the table can't map) never drop the
// element — they surface as replacement characters, per spec.md §7.4.
func decodeLine(raw []byte, cp CodePage) string {
	out, err := decoderFor(cp).Bytes(raw)
	if err != nil {
		// The x/text decoders used here are byte-oriented (CP437 and the
		// Windows code pages) or self-synchronizing (Shift-JIS with
		// transform.Bytes's built-in substitution), so this path is not
		// expected to trip in practice; fall back to a lossy UTF-8 coercion
		// rather than discarding the line.
		return strings.ToValidUTF8(string(raw), "�")
	}
	return string(out)
}
