package seatmap

import (
	"fmt"
	"regexp"
	"strings"
)

// Style is the operator-facing styling of an area. It is not stored on its
// own: SetStyle folds it into the primitive (border, fill) and the label
// (text colour, size) of a SceneGroup.
type Style struct {
	BorderEnabled   bool    `json:"border_enabled"`
	BorderColor     string  `json:"border_color"`
	BorderThickness float64 `json:"border_thickness"`
	FillColor       string  `json:"fill_color"`
	TextColor       string  `json:"text_color"`
	TextSize        float64 `json:"text_size"`
}

// StylePatch carries optional overrides. Nil fields are left untouched.
type StylePatch struct {
	BorderEnabled   *bool    `json:"border_enabled,omitempty"`
	BorderColor     *string  `json:"border_color,omitempty"`
	BorderThickness *float64 `json:"border_thickness,omitempty"`
	FillColor       *string  `json:"fill_color,omitempty"`
	TextColor       *string  `json:"text_color,omitempty"`
	TextSize        *float64 `json:"text_size,omitempty"`
}

// Palettes applied by the authoring dialog.
var (
	DefaultStyle = Style{
		BorderEnabled:   true,
		BorderColor:     "#000000",
		BorderThickness: 1,
		FillColor:       "#FFFFFF",
		TextColor:       "#000000",
		TextSize:        16,
	}
	// StagePalette is the neutral gray used for STAGE areas.
	StagePalette = Style{
		BorderEnabled:   true,
		BorderColor:     "#616161",
		BorderThickness: 2,
		FillColor:       "#BDBDBD",
		TextColor:       "#212121",
		TextSize:        20,
	}
	// FOHPalette is the dark scheme used for front-of-house areas.
	FOHPalette = Style{
		BorderEnabled:   true,
		BorderColor:     "#000000",
		BorderThickness: 2,
		FillColor:       "#263238",
		TextColor:       "#FFFFFF",
		TextSize:        18,
	}
)

// Apply returns s with every non-nil field of p applied.
func (s Style) Apply(p StylePatch) Style {
	if p.BorderEnabled != nil {
		s.BorderEnabled = *p.BorderEnabled
	}
	if p.BorderColor != nil {
		s.BorderColor = *p.BorderColor
	}
	if p.BorderThickness != nil && *p.BorderThickness >= 0 {
		s.BorderThickness = *p.BorderThickness
	}
	if p.FillColor != nil {
		s.FillColor = *p.FillColor
	}
	if p.TextColor != nil {
		s.TextColor = *p.TextColor
	}
	if p.TextSize != nil && *p.TextSize > 0 {
		s.TextSize = *p.TextSize
	}
	return s
}

var (
	hexColour  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	fontFamily = regexp.MustCompile(`^[A-Za-z0-9 ,-]{1,64}$`)
	instanceID = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,64}$`)
)

// namedColours are the keywords accepted besides #RGB and #RRGGBB.
var namedColours = map[string]bool{
	"none": true, "transparent": true,
	"black": true, "white": true, "gray": true, "grey": true, "silver": true,
	"red": true, "green": true, "blue": true, "yellow": true, "orange": true,
	"purple": true, "navy": true, "teal": true, "maroon": true,
}

// ValidColour reports whether c can be written into an SVG style. Empty
// means unset and is accepted.
func ValidColour(c string) bool {
	return c == "" || hexColour.MatchString(c) || namedColours[strings.ToLower(c)]
}

// ValidFontFamily reports whether f is a plain font-family list. Empty means
// the default font.
func ValidFontFamily(f string) bool {
	return f == "" || fontFamily.MatchString(f)
}

func checkColour(field, c string) error {
	if !ValidColour(c) {
		return fmt.Errorf("%w: %s %q", ErrInvalidStyle, field, c)
	}
	return nil
}

// Validate rejects colours that are neither hex nor a known keyword.
func (p StylePatch) Validate() error {
	for _, f := range []struct {
		name string
		v    *string
	}{
		{"border_color", p.BorderColor},
		{"fill_color", p.FillColor},
		{"text_color", p.TextColor},
	} {
		if f.v == nil {
			continue
		}
		if err := checkColour(f.name, *f.v); err != nil {
			return err
		}
	}
	return nil
}
