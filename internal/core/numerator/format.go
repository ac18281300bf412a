package numerator

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"pxc/internal/core/apperror"
)

// FormatOrder assembles periodKey + sequence + initials + phone suffix.
// The sequence is padded to two digits and widens past 99 instead of truncating.
func FormatOrder(periodKey string, seq int64, fullName, phoneNumber string) (string, error) {
	first, last, err := Initials(fullName)
	if err != nil {
		return "", err
	}
	suffix, err := PhoneSuffix(phoneNumber)
	if err != nil {
		return "", err
	}
	return formatOrder(periodKey, seq, first, last, suffix), nil
}

// FormatCustomer assembles periodKey + sequence, padded to four digits.
func FormatCustomer(periodKey string, seq int64) string {
	return periodKey + pad(seq, customerField.Width)
}

func formatOrder(periodKey string, seq int64, first, last rune, suffix string) string {
	var b strings.Builder
	b.Grow(len(periodKey) + orderField.Width + 2*utf8.UTFMax + len(suffix))
	b.WriteString(periodKey)
	b.WriteString(pad(seq, orderField.Width))
	b.WriteRune(first)
	b.WriteRune(last)
	b.WriteString(suffix)
	return b.String()
}

// pad zero-pads seq to width; %0*d widens rather than truncates.
func pad(seq int64, width int) string {
	return fmt.Sprintf("%0*d", width, seq)
}

// Initials returns the upper-cased first letters of the first and last name tokens.
// A single-token name gets NameFallbackInitial as its last initial.
func Initials(fullName string) (first, last rune, err error) {
	if !utf8.ValidString(fullName) {
		return 0, 0, apperror.NewInvalidInput("fullName", "full name is not valid UTF-8")
	}
	tokens := strings.Fields(fullName)
	if len(tokens) == 0 {
		return 0, 0, apperror.NewInvalidInput("fullName", "full name must contain at least one word")
	}
	first = leadingUpper(tokens[0])
	last = NameFallbackInitial
	if len(tokens) > 1 {
		last = leadingUpper(tokens[len(tokens)-1])
	}
	return first, last, nil
}

// PhoneSuffix returns the last PhoneSuffixLen characters of phoneNumber verbatim.
func PhoneSuffix(phoneNumber string) (string, error) {
	if !utf8.ValidString(phoneNumber) {
		return "", apperror.NewInvalidInput("phoneNumber", "phone number is not valid UTF-8")
	}
	if utf8.RuneCountInString(phoneNumber) < PhoneSuffixLen {
		return "", apperror.NewInvalidInput("phoneNumber",
			fmt.Sprintf("phone number must have at least %d characters", PhoneSuffixLen))
	}
	end := len(phoneNumber)
	for i := 0; i < PhoneSuffixLen; i++ {
		_, size := utf8.DecodeLastRuneInString(phoneNumber[:end])
		end -= size
	}
	return phoneNumber[end:], nil
}

func leadingUpper(token string) rune {
	r, _ := utf8.DecodeRuneInString(token)
	return unicode.ToUpper(r)
}
