package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Letter is a single uppercase tile letter.
type Letter rune

// letterPoints is the standard English tile scoring table
var letterPoints = map[Letter]int{
	'A': 1, 'B': 3, 'C': 3, 'D': 2, 'E': 1,
	'F': 4, 'G': 2, 'H': 4, 'I': 1, 'J': 8,
	'K': 5, 'L': 1, 'M': 3, 'N': 1, 'O': 1,
	'P': 3, 'Q': 10, 'R': 1, 'S': 1, 'T': 1,
	'U': 1, 'V': 4, 'W': 4, 'X': 8, 'Y': 4,
	'Z': 10,
}

// Vowels and RareLetters are the letter classes used by rack generation
const (
	Vowels      = "AEIOU"
	RareLetters = "JKQXZ"
)

// Points returns the base point value of the letter, or 0 for non-letters
func (l Letter) Points() int {
	return letterPoints[l]
}

// IsValid reports whether l is an uppercase A-Z letter
func (l Letter) IsValid() bool {
	return l >= 'A' && l <= 'Z'
}

// IsVowel reports whether l is one of AEIOU
func (l Letter) IsVowel() bool {
	return strings.ContainsRune(Vowels, rune(l))
}

// IsRare reports whether l is one of JKQXZ
func (l Letter) IsRare() bool {
	return strings.ContainsRune(RareLetters, rune(l))
}

// String returns the letter as a one-character string
func (l Letter) String() string {
	return string(rune(l))
}

// MarshalText encodes the letter as a one-character string so that
// racks serialize as ["W","O","R","D"] rather than code points.
func (l Letter) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a one-character string into a Letter
func (l *Letter) UnmarshalText(b []byte) error {
	s := strings.ToUpper(strings.TrimSpace(string(b)))
	if len(s) != 1 || !Letter(s[0]).IsValid() {
		return fmt.Errorf("invalid letter %q", string(b))
	}
	*l = Letter(s[0])
	return nil
}

// Normalize uppercases and trims a word
func Normalize(word string) string {
	return strings.ToUpper(strings.TrimSpace(word))
}

// IsAlpha reports whether s consists only of A-Z after normalization
func IsAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !Letter(r).IsValid() {
			return false
		}
	}
	return true
}

// Signature returns the canonical sorted-letter form of a word or letter
// multiset. Anagrams share a signature.
func Signature(word string) string {
	b := []byte(Normalize(word))
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	return string(b)
}
