package stagecode

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MaskAlphabet renders the property mask of a record.
	MaskAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-_"
	// TagAlphabet renders generated portal tags.
	TagAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var ErrInvalidDigit = errors.New("stagecode: invalid digit")

// FormatBase writes n in the positional system whose digits are alphabet,
// most significant digit first. Zero is the alphabet's first symbol.
func FormatBase(n int, alphabet string) string {
	base := len(alphabet)
	if n <= 0 {
		return alphabet[:1]
	}
	var digits []byte
	for n > 0 {
		digits = append(digits, alphabet[n%base])
		n /= base
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

// ParseBase reverses FormatBase.
func ParseBase(s, alphabet string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidDigit)
	}
	base := len(alphabet)
	n := 0
	for i := 0; i < len(s); i++ {
		d := strings.IndexByte(alphabet, s[i])
		if d < 0 {
			return 0, fmt.Errorf("%w %q", ErrInvalidDigit, s[i])
		}
		n = n*base + d
		if n > 1<<30 {
			return 0, fmt.Errorf("%w: %q overflows", ErrInvalidDigit, s)
		}
	}
	return n, nil
}
