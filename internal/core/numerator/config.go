// Package numerator mints human-readable, period-scoped sequential identifiers
// for orders and customers.
//
// Every call is a pure function of the supplied pool of issued identifiers and
// the current instant. The package never remembers what it handed out: callers
// must serialize read-pool -> allocate -> persist and rely on a uniqueness
// constraint in their store to catch concurrent allocations from the same
// snapshot.
package numerator

import (
	"fmt"
	"strings"
)

// Kind selects the identifier grammar.
type Kind int

const (
	// KindOrder identifiers: YYMMDD + 2-digit sequence + initials + last 3 phone chars.
	// Example: 25060103JD999
	KindOrder Kind = iota

	// KindCustomer identifiers: PXC + YYYYMM + 4-digit sequence.
	// Example: PXC2025060007
	KindCustomer
)

// CustomerPrefix is the literal that opens every customer identifier.
const CustomerPrefix = "PXC"

// NameFallbackInitial replaces the last initial for single-token names.
const NameFallbackInitial = 'X'

// PhoneSuffixLen is the number of trailing phone characters embedded in an order identifier.
const PhoneSuffixLen = 3

// String returns the lower-case kind name used in URLs and logs.
func (k Kind) String() string {
	switch k {
	case KindOrder:
		return "order"
	case KindCustomer:
		return "customer"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind converts "order"/"customer" (case-insensitive) to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "order", "orders":
		return KindOrder, true
	case "customer", "customers":
		return KindCustomer, true
	}
	return 0, false
}

// SeqField describes where the sequence number sits inside an identifier.
type SeqField struct {
	// Offset is the byte offset of the first sequence digit (the period key length).
	Offset int

	// Width is the minimum, zero-padded number of digits.
	Width int

	// Tail is the number of characters (runes) of metadata after the sequence.
	// The sequence field runs from Offset up to Tail characters before the end,
	// which lets widened fields (100 in a 2-wide slot) parse correctly.
	Tail int
}

var (
	orderField    = SeqField{Offset: 6, Width: 2, Tail: 2 + PhoneSuffixLen}
	customerField = SeqField{Offset: len(CustomerPrefix) + 6, Width: 4, Tail: 0}
)

// FieldFor returns the sequence layout of kind.
func FieldFor(kind Kind) SeqField {
	switch kind {
	case KindOrder:
		return orderField
	case KindCustomer:
		return customerField
	default:
		panic(fmt.Sprintf("numerator: unknown kind %d", int(kind)))
	}
}
