package numerator

import (
	"time"
)

// Generator mints identifiers from a snapshot of already issued ones.
//
// Implementations are stateless: two calls with the same snapshot return the
// same identifier. Callers persisting the result must hold the period lock or
// retry on a uniqueness violation.
type Generator interface {
	// PeriodKey returns the current allocation scope for kind.
	PeriodKey(kind Kind) string

	// GenerateOrderID returns the next order identifier given existingOrderIDs.
	GenerateOrderID(existingOrderIDs []string, fullName, phoneNumber string) (string, error)

	// GenerateCustomerID returns the next customer identifier given existingCustomerIDs.
	GenerateCustomerID(existingCustomerIDs []string) (string, error)
}

// Numerator is the default Generator: wall clock, Asia/Dhaka calendar.
type Numerator struct {
	now     func() time.Time
	deriver *Deriver
}

// Ensure compile-time interface compliance.
var _ Generator = (*Numerator)(nil)

// Option configures a Numerator.
type Option func(*Numerator)

// WithClock overrides the time source. Use in tests for determinism.
func WithClock(now func() time.Time) Option {
	return func(n *Numerator) {
		if now != nil {
			n.now = now
		}
	}
}

// WithDeriver switches the civil calendar used for period keys.
func WithDeriver(d *Deriver) Option {
	return func(n *Numerator) {
		if d != nil {
			n.deriver = d
		}
	}
}

// New creates a Numerator.
func New(opts ...Option) *Numerator {
	n := &Numerator{
		now:     time.Now,
		deriver: defaultDeriver,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// PeriodKey implements Generator.
func (n *Numerator) PeriodKey(kind Kind) string {
	return n.deriver.Derive(kind, n.now())
}

// GenerateOrderID implements Generator.
// Name and phone are validated before the pool is read.
func (n *Numerator) GenerateOrderID(existingOrderIDs []string, fullName, phoneNumber string) (string, error) {
	first, last, err := Initials(fullName)
	if err != nil {
		return "", err
	}
	suffix, err := PhoneSuffix(phoneNumber)
	if err != nil {
		return "", err
	}

	key := n.PeriodKey(KindOrder)
	seq, err := NextSequence(existingOrderIDs, key, orderField)
	if err != nil {
		return "", err
	}
	return formatOrder(key, seq, first, last, suffix), nil
}

// GenerateCustomerID implements Generator.
func (n *Numerator) GenerateCustomerID(existingCustomerIDs []string) (string, error) {
	key := n.PeriodKey(KindCustomer)
	seq, err := NextSequence(existingCustomerIDs, key, customerField)
	if err != nil {
		return "", err
	}
	return FormatCustomer(key, seq), nil
}

var std = New()

// GenerateOrderID mints an order identifier using the wall clock.
func GenerateOrderID(existingOrderIDs []string, fullName, phoneNumber string) (string, error) {
	return std.GenerateOrderID(existingOrderIDs, fullName, phoneNumber)
}

// GenerateCustomerID mints a customer identifier using the wall clock.
func GenerateCustomerID(existingCustomerIDs []string) (string, error) {
	return std.GenerateCustomerID(existingCustomerIDs)
}
