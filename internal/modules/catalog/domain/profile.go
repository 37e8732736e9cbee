package domain

import (
	"bistroDesk/internal/shared/normalization"
)

// Profile holds the restaurant's branding and receipt settings. Exactly one
// profile exists per account; guests see the default.
type Profile struct {
	Name             string `json:"name"`
	Address          string `json:"address"`
	Contact          string `json:"contact"`
	Logo             string `json:"logo"`
	OwnerName        string `json:"ownerName"`
	ReceiptHeader    string `json:"receiptHeader,omitempty"`
	ReceiptFooter    string `json:"receiptFooter,omitempty"`
	ThemeColor       string `json:"themeColor"`
	FontPair         string `json:"fontPair"`
	CustomFontFamily string `json:"customFontFamily,omitempty"`
}

// DefaultProfile returns the profile used before an account customizes its own.
func DefaultProfile() Profile {
	return Profile{
		Name:          "Dhruv Restaurants",
		Address:       "123 Culinary Avenue, Food City, FC 90210",
		Contact:       "9876543210",
		Logo:          "",
		OwnerName:     "Dhruv",
		ReceiptHeader: "Thank you for ordering from Dhruv Restaurants! 🥗\nWe serve the best food in town.",
		ReceiptFooter: "We hope you enjoy your meal! ✨\nPlease leave us a review on Google.",
		ThemeColor:    "indigo",
		FontPair:      "modern",
	}
}

// NormalizeProfile builds a Profile from a store row, substituting the
// default for every missing optional field.
func NormalizeProfile(row map[string]any) Profile {
	def := DefaultProfile()
	return Profile{
		Name:             normalization.FirstNonEmpty(normalization.AsString(row["name"]), def.Name),
		Address:          normalization.FirstNonEmpty(normalization.AsString(row["address"]), def.Address),
		Contact:          normalization.FirstNonEmpty(normalization.AsString(row["contact"]), def.Contact),
		Logo:             normalization.AsString(row["logo"]),
		OwnerName:        normalization.FirstNonEmpty(normalization.AsString(row["owner_name"]), def.OwnerName),
		ReceiptHeader:    normalization.FirstNonEmpty(normalization.AsString(row["receipt_header"]), def.ReceiptHeader),
		ReceiptFooter:    normalization.FirstNonEmpty(normalization.AsString(row["receipt_footer"]), def.ReceiptFooter),
		ThemeColor:       normalization.FirstNonEmpty(normalization.AsString(row["theme_color"]), "indigo"),
		FontPair:         normalization.FirstNonEmpty(normalization.AsString(row["font_pair"]), "modern"),
		CustomFontFamily: normalization.AsString(row["custom_font_family"]),
	}
}

// Row builds the write payload for the store, keyed by the account id.
func (p Profile) Row(identity string) map[string]any {
	return map[string]any{
		"id":                 identity,
		"name":               p.Name,
		"address":            p.Address,
		"contact":            p.Contact,
		"logo":               p.Logo,
		"owner_name":         p.OwnerName,
		"receipt_header":     p.ReceiptHeader,
		"receipt_footer":     p.ReceiptFooter,
		"theme_color":        p.ThemeColor,
		"font_pair":          p.FontPair,
		"custom_font_family": p.CustomFontFamily,
	}
}
