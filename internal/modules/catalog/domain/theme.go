package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Theme is the resolved branding for a profile: a five-shade primary palette
// plus the body/heading font families the UI should load.
type Theme struct {
	Colors        map[string]string `json:"colors"`
	FontBody      string            `json:"fontBody"`
	FontHeading   string            `json:"fontHeading"`
	StylesheetURL string            `json:"stylesheetUrl,omitempty"`
}

var palettePresets = map[string]map[string]string{
	"indigo":  {"50": "#eef2ff", "100": "#e0e7ff", "200": "#c7d2fe", "600": "#4f46e5", "700": "#4338ca"},
	"orange":  {"50": "#fff7ed", "100": "#ffedd5", "200": "#fed7aa", "600": "#ea580c", "700": "#c2410c"},
	"rose":    {"50": "#fff1f2", "100": "#ffe4e6", "200": "#fecdd3", "600": "#e11d48", "700": "#be123c"},
	"emerald": {"50": "#ecfdf5", "100": "#d1fae5", "200": "#a7f3d0", "600": "#059669", "700": "#047857"},
	"sky":     {"50": "#f0f9ff", "100": "#e0f2fe", "200": "#bae6fd", "600": "#0284c7", "700": "#0369a1"},
}

var fontPresets = map[string][2]string{
	"modern":  {"Inter", "Inter"},
	"elegant": {"Oxanium", "Oxanium"},
	"classic": {"Merriweather", "Merriweather"},
}

// ResolveTheme maps a profile's branding settings to a concrete theme.
// Unknown theme colors are treated as hex values and shaded by mixing toward
// white and black; unknown font pairs fall back to the modern preset unless
// the pair is "custom" with a family set.
func ResolveTheme(p Profile) Theme {
	theme := Theme{}

	if preset, ok := palettePresets[p.ThemeColor]; ok {
		colors := make(map[string]string, len(preset))
		for shade, hex := range preset {
			colors[shade] = hex
		}
		theme.Colors = colors
	} else {
		theme.Colors = deriveShades(p.ThemeColor)
	}

	if pair, ok := fontPresets[p.FontPair]; ok {
		theme.FontBody, theme.FontHeading = pair[0], pair[1]
	} else if p.FontPair == "custom" && strings.TrimSpace(p.CustomFontFamily) != "" {
		family := strings.TrimSpace(p.CustomFontFamily)
		theme.FontBody, theme.FontHeading = family, family
		theme.StylesheetURL = "https://fonts.googleapis.com/css2?family=" +
			strings.ReplaceAll(family, " ", "+") + ":wght@300;400;700;900&display=swap"
	} else {
		pair := fontPresets["modern"]
		theme.FontBody, theme.FontHeading = pair[0], pair[1]
	}

	return theme
}

func deriveShades(hex string) map[string]string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return palettePresets["indigo"]
	}
	return map[string]string{
		"600": formatHex(r, g, b),
		"700": formatHex(mix(r, g, b, 0, 0, 0, 0.20)),
		"200": formatHex(mix(r, g, b, 255, 255, 255, 0.60)),
		"100": formatHex(mix(r, g, b, 255, 255, 255, 0.80)),
		"50":  formatHex(mix(r, g, b, 255, 255, 255, 0.95)),
	}
}

func parseHex(hex string) (r, g, b int, ok bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

func mix(r, g, b, tr, tg, tb int, amount float64) (int, int, int) {
	blend := func(from, to int) int {
		return int(float64(from)*(1-amount) + float64(to)*amount + 0.5)
	}
	return blend(r, tr), blend(g, tg), blend(b, tb)
}

func formatHex(r, g, b int) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
