package domain

import (
	"net/url"
	"strings"
)

// Session is the authenticated operator behind the back office. A nil
// session means guest mode.
type Session struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// Derive builds the display identity from the account's raw fields. The name
// falls back from the registered full name to the email's local part to a
// generic placeholder, and the picture is a generated initials avatar.
func Derive(id, email, fullName string) Session {
	name := strings.TrimSpace(fullName)
	if name == "" {
		if at := strings.IndexByte(email, '@'); at > 0 {
			name = email[:at]
		}
	}
	if name == "" {
		name = "User"
	}
	return Session{
		ID:      id,
		Name:    name,
		Email:   email,
		Picture: avatarURL(name),
	}
}

func avatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}
