package issue_repo

import (
	"pxc/internal/domain/customers"
	"pxc/internal/infrastructure/storage/postgres"
)

// CustomerRepo stores customers in the customers table.
type CustomerRepo struct {
	*BaseRepo[*customers.Customer]
}

var _ customers.Repository = (*CustomerRepo)(nil)

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txm *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		BaseRepo: NewBaseRepo(txm, "customers", "customer", func() *customers.Customer { return &customers.Customer{} }),
	}
}
