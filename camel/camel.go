// Package camel holds the fixed registry of camel colors. A camel is
// identified solely by its color.
package camel

import (
	"errors"
	"fmt"
	"strings"
)

// Color identifies one camel (and its die, and its betting tickets).
type Color uint8

const (
	Red Color = iota
	Yellow
	Green
	Blue
	Purple
)

// NumColors is the number of camels on the track.
const NumColors = 5

var ErrUnknownColor = errors.New("unknown camel color")

var names = [...]string{
	Red:    "red",
	Yellow: "yellow",
	Green:  "green",
	Blue:   "blue",
	Purple: "purple",
}

var letters = [...]string{
	Red:    "R",
	Yellow: "Y",
	Green:  "G",
	Blue:   "B",
	Purple: "P",
}

func (c Color) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return names[c]
}

// Letter is the one-letter abbreviation of the color.
func (c Color) Letter() string {
	if !c.Valid() {
		return "?"
	}
	return letters[c]
}

func (c Color) Valid() bool {
	return c < NumColors
}

// All returns every color in registry order.
func All() []Color {
	return []Color{Red, Yellow, Green, Blue, Purple}
}

// Parse accepts a full color name or its one-letter abbreviation, in any case.
func Parse(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := range names {
		if s == names[i] || s == strings.ToLower(letters[i]) {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColor, s)
}
