package ring

import (
	"iter"
	"unicode/utf8"
)

// BoundaryOffset returns how many bytes must be skipped from the start of seq
// to reach a UTF-8 character boundary: the start of a codepoint, or the end
// of seq. At most utf8.UTFMax bytes are pulled from seq.
//
// It panics if utf8.UTFMax continuation bytes are pulled in a row, which
// cannot happen inside well-formed UTF-8.
func BoundaryOffset(seq iter.Seq[byte]) int {
	i := 0
	for b := range seq {
		if utf8.RuneStart(b) {
			return i
		}
		i++
		if i == utf8.UTFMax {
			panic("ring: no character boundary in malformed UTF-8")
		}
	}
	return i
}

// stringBytes yields the bytes of s.
func stringBytes(s string) iter.Seq[byte] {
	return func(yield func(byte) bool) {
		for i := range len(s) {
			if !yield(s[i]) {
				return
			}
		}
	}
}
