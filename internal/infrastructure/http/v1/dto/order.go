package dto

import (
	"time"

	"pxc/internal/core/apperror"
	"pxc/internal/core/types"
	"pxc/internal/domain/orders"
)

// CreateOrderRequest for placing an order.
// Name and phone are checked by the numerator, not by binding tags,
// so that a missing value surfaces as INVALID_INPUT.
type CreateOrderRequest struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Total       string `json:"total"`
}

// ToInput converts the request to domain input.
func (r CreateOrderRequest) ToInput() (orders.CreateInput, error) {
	total, err := types.ParseMoney(r.Total)
	if err != nil {
		return orders.CreateInput{}, apperror.NewValidation("invalid total").
			WithDetail("field", "total").
			WithDetail("value", r.Total)
	}
	return orders.CreateInput{
		FullName: r.FullName,
		Phone:    r.PhoneNumber,
		Total:    total,
	}, nil
}

// OrderResponse is the API view of an order.
type OrderResponse struct {
	ID          string    `json:"id"`
	Number      string    `json:"number"`
	PeriodKey   string    `json:"periodKey"`
	Sequence    int64     `json:"sequence"`
	FullName    string    `json:"fullName"`
	PhoneNumber string    `json:"phoneNumber"`
	Total       string    `json:"total"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromOrder creates OrderResponse from orders.Order.
func FromOrder(o *orders.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID.String(),
		Number:      o.Number,
		PeriodKey:   o.PeriodKey,
		Sequence:    o.Sequence,
		FullName:    o.FullName,
		PhoneNumber: o.Phone,
		Total:       o.Total.StringFixed(types.MoneyScale),
		CreatedAt:   o.CreatedAt,
	}
}
