package helpers

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DateLayout is how every date column is stored and compared.
const DateLayout = "2006-01-02"

var (
	slugInvalid = regexp.MustCompile("[^a-z0-9]+")
	slugValid   = regexp.MustCompile("^[a-z0-9]+(?:-[a-z0-9]+)*$")
)

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s es obligatorio.", err.Field())
		case "email":
			errorMessages[field] = fmt.Sprintf("%s debe ser un correo válido.", err.Field())
		case "numeric", "number":
			errorMessages[field] = fmt.Sprintf("%s debe ser un número.", err.Field())
		case "min":
			errorMessages[field] = fmt.Sprintf("%s debe tener al menos %s caracteres.", err.Field(), err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s admite como máximo %s caracteres.", err.Field(), err.Param())
		case "datetime":
			errorMessages[field] = fmt.Sprintf("%s debe tener el formato AAAA-MM-DD.", err.Field())
		case "oneof":
			errorMessages[field] = fmt.Sprintf("%s debe ser uno de: %s.", err.Field(), err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("Validación %s fallida en %s.", err.Tag(), err.Field())
		}
	}
	return errorMessages
}

// GenerateSlug lowercases s, strips accents and joins the remaining
// alphanumeric runs with single hyphens: "Día de las Madres" -> "dia-de-las-madres".
func GenerateSlug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	result = strings.ToLower(result)
	result = slugInvalid.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

func IsValidSlug(s string) bool {
	return slugValid.MatchString(s)
}

// NullableString trims s and returns nil when nothing is left, so optional
// columns are stored as NULL rather than "".
func NullableString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// RedirectWithMessage redirects to target carrying a notification in the
// status/message query parameters read by the layout.
func RedirectWithMessage(w http.ResponseWriter, r *http.Request, target, status, message string) {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	http.Redirect(w, r, target+sep+"status="+status+"&message="+url.QueryEscape(message), http.StatusSeeOther)
}
