// Package orders issues and stores customer orders.
// Every order carries a human-readable number minted by package numerator.
package orders

import (
	"strings"
	"time"

	"pxc/internal/core/apperror"
	"pxc/internal/core/id"
	"pxc/internal/core/types"
)

// Order is a placed order.
type Order struct {
	ID id.ID `db:"id" json:"id"`

	// Number is the issued identifier, e.g. 25060103JD999
	Number string `db:"number" json:"number"`

	// PeriodKey and Sequence are the decoded scope of Number.
	// The store keeps (period_key, sequence) unique.
	PeriodKey string `db:"period_key" json:"periodKey"`
	Sequence  int64  `db:"sequence" json:"sequence"`

	FullName  string      `db:"full_name" json:"fullName"`
	Phone     string      `db:"phone" json:"phone"`
	Total     types.Money `db:"total" json:"total"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// CreateInput is what a caller supplies to place an order.
type CreateInput struct {
	FullName string
	Phone    string
	Total    types.Money
}

// Validate checks fields the numerator does not look at.
// Name and phone are validated by the numerator itself.
func (in CreateInput) Validate() error {
	if in.Total.IsNegative() {
		return apperror.NewValidation("order total must not be negative").
			WithDetail("field", "total")
	}
	return nil
}

func (in CreateInput) normalized() CreateInput {
	in.FullName = strings.Join(strings.Fields(in.FullName), " ")
	in.Phone = strings.TrimSpace(in.Phone)
	return in
}
