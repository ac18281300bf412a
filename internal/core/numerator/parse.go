package numerator

import (
	"strings"
	"unicode/utf8"

	"pxc/internal/core/apperror"
)

// Parts is a decoded identifier.
type Parts struct {
	Kind         Kind   `json:"kind"`
	PeriodKey    string `json:"periodKey"`
	Sequence     int64  `json:"sequence"`
	FirstInitial string `json:"firstInitial,omitempty"`
	LastInitial  string `json:"lastInitial,omitempty"`
	PhoneSuffix  string `json:"phoneSuffix,omitempty"`
}

// Parse splits id into its period key, sequence and order metadata.
func Parse(kind Kind, id string) (Parts, error) {
	field := FieldFor(kind)
	if len(id) < field.Offset || !validPeriodKey(kind, id[:field.Offset]) {
		return Parts{}, malformed(kind, id)
	}

	digits, err := field.Digits(id)
	if err != nil {
		return Parts{}, malformed(kind, id)
	}
	seq, err := field.Parse(id)
	if err != nil {
		return Parts{}, malformed(kind, id)
	}

	parts := Parts{
		Kind:      kind,
		PeriodKey: id[:field.Offset],
		Sequence:  seq,
	}
	if kind == KindOrder {
		tail := id[field.Offset+len(digits):]
		first, size := utf8.DecodeRuneInString(tail)
		last, size2 := utf8.DecodeRuneInString(tail[size:])
		parts.FirstInitial = string(first)
		parts.LastInitial = string(last)
		parts.PhoneSuffix = tail[size+size2:]
	}
	return parts, nil
}

func validPeriodKey(kind Kind, key string) bool {
	digits := key
	if kind == KindCustomer {
		if !strings.HasPrefix(key, CustomerPrefix) {
			return false
		}
		digits = key[len(CustomerPrefix):]
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}

func malformed(kind Kind, id string) error {
	return apperror.NewValidation("malformed "+kind.String()+" identifier").
		WithDetail("id", id)
}
