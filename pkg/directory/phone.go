package directory

import "strings"

// Digits strips everything but ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhone applies the Brazilian mobile mask (XX) XXXXX-XXXX as digits
// are typed, truncating after 11 digits.
func FormatPhone(s string) string {
	d := Digits(s)
	if len(d) > 11 {
		d = d[:11]
	}
	switch {
	case len(d) <= 2:
		return d
	case len(d) <= 7:
		return "(" + d[:2] + ") " + d[2:]
	default:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
}

// WhatsAppLink builds the wa.me deep link for a Brazilian number.
func WhatsAppLink(phone string) string {
	return "https://wa.me/55" + Digits(phone)
}
