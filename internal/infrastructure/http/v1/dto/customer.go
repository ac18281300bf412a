package dto

import (
	"time"

	"pxc/internal/domain/customers"
)

// CreateCustomerRequest for registering a customer.
type CreateCustomerRequest struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email" binding:"omitempty,email"`
}

// ToInput converts the request to domain input.
func (r CreateCustomerRequest) ToInput() customers.CreateInput {
	return customers.CreateInput{
		FullName: r.FullName,
		Phone:    r.PhoneNumber,
		Email:    r.Email,
	}
}

// CustomerResponse is the API view of a customer.
type CustomerResponse struct {
	ID          string    `json:"id"`
	Number      string    `json:"number"`
	PeriodKey   string    `json:"periodKey"`
	Sequence    int64     `json:"sequence"`
	FullName    string    `json:"fullName"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Email       *string   `json:"email,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromCustomer creates CustomerResponse from customers.Customer.
func FromCustomer(c *customers.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID.String(),
		Number:      c.Number,
		PeriodKey:   c.PeriodKey,
		Sequence:    c.Sequence,
		FullName:    c.FullName,
		PhoneNumber: c.Phone,
		Email:       c.Email,
		CreatedAt:   c.CreatedAt,
	}
}
