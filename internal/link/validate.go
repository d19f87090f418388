package link

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxDestinationLength bounds destinations accepted for new links.
const MaxDestinationLength = 2048

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern  = regexp.MustCompile(`^\d{6,15}$`)
	nonDigits     = regexp.MustCompile(`\D`)
	allowedScheme = regexp.MustCompile(`(?i)^(https?://|mailto:)`)
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var messages = map[string]string{
	"url.required":        "enter a URL",
	"url.destination":     "enter a valid http/https or mailto: URL",
	"url.max":             "URL is too long",
	"number.required":     "phone number required",
	"number.phonedigits":  "enter a valid phone number (6-15 digits)",
	"email.required":      "email required",
	"email.looseemail":    "enter a valid email address",
	"country.countrycode": "country code must be digits",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	must(v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("phonedigits", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(digitsOnly(fl.Field().String()))
	}))
	must(v.RegisterValidation("countrycode", func(fl validator.FieldLevel) bool {
		return digitsOnly(fl.Field().String()) != ""
	}))
	must(v.RegisterValidation("destination", func(fl validator.FieldLevel) bool {
		return allowedScheme.MatchString(fl.Field().String())
	}))

	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func digitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// check validates s and converts the first failure into a *ValidationError.
func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]

	msg, ok := messages[fe.Field()+"."+fe.Tag()]
	if !ok {
		msg = "invalid value"
	}

	return &ValidationError{Field: fe.Field(), Message: msg}
}

type destinationInput struct {
	URL string `json:"url" validate:"required,max=2048,destination"`
}

// ValidateDestination trims raw and checks it is an http(s) or mailto: destination.
func ValidateDestination(raw string) (string, error) {
	in := destinationInput{URL: strings.TrimSpace(raw)}
	if err := check(in); err != nil {
		return "", err
	}

	return in.URL, nil
}
