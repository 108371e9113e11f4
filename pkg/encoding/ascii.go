// Package encoding provides text encoding utilities for fixed-width binary
// string fields.
package encoding

import (
	"bytes"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Replacement is written in place of characters outside the ASCII range.
const Replacement = '?'

// toASCII maps every non-ASCII rune to Replacement.
var toASCII = runes.Map(func(r rune) rune {
	if r > unicode.MaxASCII {
		return Replacement
	}
	return r
})

// ASCII converts s to 7-bit ASCII, replacing unsupported characters.
func ASCII(s string) string {
	result, _, err := transform.String(toASCII, s)
	if err != nil {
		return s
	}
	return result
}

// UpperASCII upper-cases s and converts it to 7-bit ASCII.
// Upper-casing happens first so that characters with an ASCII upper-case
// form survive the conversion.
func UpperASCII(s string) string {
	t := transform.Chain(cases.Upper(language.Und), toASCII)
	result, _, err := transform.String(t, s)
	if err != nil {
		return ASCII(s)
	}
	return result
}

// FixedASCII converts s to an upper-case ASCII byte array of exactly size
// bytes. Longer strings are truncated and shorter ones are padded with null
// bytes; a string of exactly size characters has no terminator.
func FixedASCII(s string, size int) []byte {
	result := make([]byte, size)
	copy(result, UpperASCII(s))
	return result
}

// TrimNullBytes removes trailing null bytes from a byte slice.
func TrimNullBytes(data []byte) []byte {
	return bytes.TrimRight(data, "\x00")
}

// TrimNullString removes trailing null bytes and converts to string.
func TrimNullString(data []byte) string {
	return string(TrimNullBytes(data))
}
