package dom

import "unicode/utf16"

// DOM offsets into character data count UTF-16 code units, as JavaScript
// strings do.

// UTF16Length returns the length of s in UTF-16 code units.
func UTF16Length(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

func toUTF16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func fromUTF16(units []uint16) string {
	return string(utf16.Decode(units))
}

// UTF16Substring returns the code units [start, end) of s, clamped to the
// string bounds.
func UTF16Substring(s string, start, end int) string {
	units := toUTF16(s)
	if start < 0 {
		start = 0
	}
	if end > len(units) {
		end = len(units)
	}
	if start >= end {
		return ""
	}
	return fromUTF16(units[start:end])
}
