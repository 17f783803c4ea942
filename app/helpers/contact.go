package helpers

import (
	"net/url"
	"strings"
	"unicode"
)

const (
	DefaultOrderMessage = "Hola! Me gustaría hacer un pedido."
	whatsAppBaseURL     = "https://wa.me/"
)

// WhatsAppLink builds a wa.me link for number with a prefilled message.
// Non-digits are stripped from number; with no digits left it returns "".
func WhatsAppLink(number, message string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return ""
	}
	link := whatsAppBaseURL + digits
	if message != "" {
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	}
	return link
}

// ProductInquiryMessage is the prefilled text for asking about a product.
// formattedPrice is omitted when empty.
func ProductInquiryMessage(productName, formattedPrice string) string {
	msg := "Hola! Me interesa el producto *" + productName + "*"
	if formattedPrice != "" {
		msg += " con precio *" + formattedPrice + "*"
	}
	return msg + ". Me gustaría más información."
}

func PromotionInquiryMessage(promotionName string) string {
	return "Hola! Me interesa la promoción de " + promotionName
}
