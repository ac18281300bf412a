// Package customers registers customers under month-scoped PXC numbers.
package customers

import (
	"strings"
	"time"

	"pxc/internal/core/apperror"
	"pxc/internal/core/id"
)

// Customer is a registered customer.
type Customer struct {
	ID id.ID `db:"id" json:"id"`

	// Number is the issued identifier, e.g. PXC2025060007
	Number    string `db:"number" json:"number"`
	PeriodKey string `db:"period_key" json:"periodKey"`
	Sequence  int64  `db:"sequence" json:"sequence"`

	FullName  string    `db:"full_name" json:"fullName"`
	Phone     string    `db:"phone" json:"phone"`
	Email     *string   `db:"email" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// CreateInput is what a caller supplies to register a customer.
type CreateInput struct {
	FullName string
	Phone    string
	Email    string
}

// Validate implements basic field checks.
func (in CreateInput) Validate() error {
	if in.FullName == "" {
		return apperror.NewValidation("full name is required").
			WithDetail("field", "fullName")
	}
	return nil
}

func (in CreateInput) normalized() CreateInput {
	in.FullName = strings.Join(strings.Fields(in.FullName), " ")
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	return in
}
