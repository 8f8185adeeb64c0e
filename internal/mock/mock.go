// Package mock rewrites a targeted user's message text into its shadow form.
package mock

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Mode selects the text transform applied to a mocked user's messages.
// The numeric values are the ones stored in the snapshot and typed in chat.
type Mode int

const (
	Verbatim        Mode = 1
	AlternatingCase Mode = 2
	Leetspeak       Mode = 3
)

// ErrInvalidMode is returned for any mode outside Verbatim..Leetspeak.
var ErrInvalidMode = errors.New("invalid mock mode")

var leet = map[rune]rune{
	'a': '4',
	'e': '3',
	'i': '1',
	'o': '0',
	's': '5',
	't': '7',
}

// ParseMode validates a raw mode number.
func ParseMode(n int) (Mode, error) {
	m := Mode(n)
	if !m.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidMode, n)
	}
	return m, nil
}

func (m Mode) Valid() bool {
	return m >= Verbatim && m <= Leetspeak
}

func (m Mode) String() string {
	switch m {
	case Verbatim:
		return "copy"
	case AlternatingCase:
		return "alternating caps"
	case Leetspeak:
		return "leetspeak"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Transform applies mode to text. Unknown modes return text unchanged.
func Transform(text string, mode Mode) string {
	switch mode {
	case AlternatingCase:
		return alternate(text)
	case Leetspeak:
		return leetify(text)
	default:
		return text
	}
}

// alternate lowercases even character positions and uppercases odd ones.
// Positions count characters, not letters.
func alternate(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for _, r := range text {
		if i%2 == 0 {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		i++
	}
	return b.String()
}

func leetify(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if d, ok := leet[unicode.ToLower(r)]; ok {
			b.WriteRune(d)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
