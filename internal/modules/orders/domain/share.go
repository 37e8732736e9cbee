package domain

import (
	"net/url"
	"strings"
)

// WhatsAppLink builds a messaging deep link for the given phone number and
// receipt text. Non-digits are stripped from the number; api.whatsapp.com
// handles emojis more reliably than the short-form host.
func WhatsAppLink(phone, text string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return "https://api.whatsapp.com/send?phone=" + digits.String() + "&text=" + url.QueryEscape(text)
}

// SMSLink builds a telephony deep link carrying the receipt text.
func SMSLink(contact, text string) string {
	return "sms:" + strings.TrimSpace(contact) + "?body=" + url.QueryEscape(text)
}
