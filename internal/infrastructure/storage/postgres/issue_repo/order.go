package issue_repo

import (
	"pxc/internal/domain/orders"
	"pxc/internal/infrastructure/storage/postgres"
)

// OrderRepo stores orders in the orders table.
type OrderRepo struct {
	*BaseRepo[*orders.Order]
}

var _ orders.Repository = (*OrderRepo)(nil)

// NewOrderRepo creates a new order repository.
func NewOrderRepo(txm *postgres.TxManager) *OrderRepo {
	return &OrderRepo{
		BaseRepo: NewBaseRepo(txm, "orders", "order", func() *orders.Order { return &orders.Order{} }),
	}
}
