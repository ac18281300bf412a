package memory

import (
	"pxc/internal/domain/customers"
	"pxc/internal/domain/orders"
)

// OrderRepo is an in-memory orders.Repository.
type OrderRepo struct {
	*table[*orders.Order]
}

var _ orders.Repository = (*OrderRepo)(nil)

// NewOrderRepo creates an empty OrderRepo.
func NewOrderRepo() *OrderRepo {
	return &OrderRepo{newTable("order", func(o *orders.Order) (string, string, int64) {
		return o.Number, o.PeriodKey, o.Sequence
	})}
}

// CustomerRepo is an in-memory customers.Repository.
type CustomerRepo struct {
	*table[*customers.Customer]
}

var _ customers.Repository = (*CustomerRepo)(nil)

// NewCustomerRepo creates an empty CustomerRepo.
func NewCustomerRepo() *CustomerRepo {
	return &CustomerRepo{newTable("customer", func(c *customers.Customer) (string, string, int64) {
		return c.Number, c.PeriodKey, c.Sequence
	})}
}
