package calendar

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Color is a subcalendar display color from a fixed palette.
type Color int

const (
	Blue Color = iota
	Red
	Green
	Yellow
	Magenta
	Cyan
)

var colorNames = []string{"blue", "red", "green", "yellow", "magenta", "cyan"}

// Palette returns the full color palette in order.
func Palette() []Color {
	p := make([]Color, len(colorNames))
	for i := range p {
		p[i] = Color(i)
	}
	return p
}

// ParseColor resolves a palette color by name.
func ParseColor(name string) (Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range colorNames {
		if n == name {
			return Color(i), nil
		}
	}
	return Blue, fmt.Errorf("calendar: unknown color %q (one of %s)", name, strings.Join(colorNames, ", "))
}

// Next returns the following palette color, wrapping around.
func (c Color) Next() Color {
	return Color((int(c) + 1) % len(colorNames))
}

func (c Color) String() string {
	if c < 0 || int(c) >= len(colorNames) {
		return "blue"
	}
	return colorNames[c]
}

func (c Color) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", c)), nil
}

func (c *Color) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	parsed, err := ParseColor(v)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
