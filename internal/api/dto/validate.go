package dto

import (
	"net/mail"
	"regexp"
	"unicode/utf8"

	apperrors "github.com/spec-kit/fieldreport-auth/pkg/util"
)

var (
	e164Pattern = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)
	otpPattern  = regexp.MustCompile(`^[0-9]{4,10}$`)
)

// Rule checks one field and returns a validation error or nil.
type Rule func() error

// First runs rules in order and returns the first failure.
func First(rules ...Rule) error {
	for _, rule := range rules {
		if err := rule(); err != nil {
			return err
		}
	}
	return nil
}

// MaxRunes fails when value is longer than limit characters.
func MaxRunes(field, value string, limit int, message string) error {
	if utf8.RuneCountInString(value) > limit {
		return fieldError(field, message)
	}
	return nil
}

// ValidPhone reports whether phone is an E.164 number.
func ValidPhone(phone string) bool {
	return e164Pattern.MatchString(phone)
}

// ValidEmail reports whether email is a bare address.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func phoneRules(phone string) Rule {
	return func() error {
		if phone == "" {
			return fieldError("phoneNumber", MsgPhoneRequired)
		}
		if !ValidPhone(phone) {
			return fieldError("phoneNumber", MsgPhoneInvalid)
		}
		return nil
	}
}

func fieldError(field, message string) error {
	return apperrors.NewValidationError(message, map[string]any{"field": field})
}
