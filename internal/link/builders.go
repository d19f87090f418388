package link

import (
	"strings"

	"github.com/serroba/fraglink/internal/payload"
)

const (
	DefaultCountryCode = "91"
	DefaultMessage     = "Hello"
)

// WhatsAppRequest describes a wa.me chat link.
type WhatsAppRequest struct {
	Country string `json:"country,omitempty" validate:"omitempty,countrycode"`
	Number  string `json:"number"            validate:"required,phonedigits"`
	Message string `json:"message,omitempty"`
}

// WhatsApp builds a https://wa.me destination. Non-digits in the number are dropped.
func WhatsApp(req WhatsAppRequest) (string, error) {
	req.Country = strings.TrimSpace(req.Country)
	req.Number = strings.TrimSpace(req.Number)
	req.Message = strings.TrimSpace(req.Message)

	if err := check(req); err != nil {
		return "", err
	}

	country := DefaultCountryCode
	if req.Country != "" {
		country = digitsOnly(req.Country)
	}

	message := req.Message
	if message == "" {
		message = DefaultMessage
	}

	return "https://wa.me/" + country + digitsOnly(req.Number) + "?text=" + payload.EscapeComponent(message), nil
}

// MailtoRequest describes a pre-filled email.
type MailtoRequest struct {
	Email   string `json:"email"             validate:"required,looseemail"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
}

// Mailto builds a mailto: destination. Subject and body are form-encoded and omitted when empty.
func Mailto(req MailtoRequest) (string, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Body = strings.TrimSpace(req.Body)

	if err := check(req); err != nil {
		return "", err
	}

	var params []string
	if req.Subject != "" {
		params = append(params, "subject="+formEscape(req.Subject))
	}

	if req.Body != "" {
		params = append(params, "body="+formEscape(req.Body))
	}

	dest := "mailto:" + payload.EscapeComponent(req.Email)
	if len(params) > 0 {
		dest += "?" + strings.Join(params, "&")
	}

	return dest, nil
}

// formEscape encodes s as application/x-www-form-urlencoded, the way browsers serialize URLSearchParams.
func formEscape(s string) string {
	const upperhex = "0123456789ABCDEF"

	var sb strings.Builder

	for i := range len(s) {
		c := s[i]

		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			c == '*', c == '-', c == '.', c == '_':
			sb.WriteByte(c)
		case c == ' ':
			sb.WriteByte('+')
		default:
			sb.WriteByte('%')
			sb.WriteByte(upperhex[c>>4])
			sb.WriteByte(upperhex[c&0x0f])
		}
	}

	return sb.String()
}
