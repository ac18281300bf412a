package customers

import (
	"context"
	"fmt"
	"time"

	"pxc/internal/core/apperror"
	"pxc/internal/core/id"
	"pxc/internal/core/numerator"
	"pxc/internal/domain"
	"pxc/pkg/logger"
)

// Service registers customers and mints their numbers.
type Service struct {
	repo   Repository
	gen    numerator.Generator
	issuer *domain.Issuer
	now    func() time.Time
}

// NewService creates a new Customer service.
func NewService(repo Repository, gen numerator.Generator, issuer *domain.Issuer) *Service {
	return &Service{
		repo:   repo,
		gen:    gen,
		issuer: issuer,
		now:    time.Now,
	}
}

// Create allocates the next customer number for the current month and stores the customer.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Customer, error) {
	in = in.normalized()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var created *Customer
	err := s.issuer.Issue(ctx,
		func() string { return s.gen.PeriodKey(numerator.KindCustomer) },
		func(ctx context.Context, periodKey string) error {
			pool, err := s.repo.Numbers(ctx, periodKey)
			if err != nil {
				return fmt.Errorf("read customer pool: %w", err)
			}

			number, err := s.gen.GenerateCustomerID(pool)
			if err != nil {
				return err
			}
			parts, err := numerator.Parse(numerator.KindCustomer, number)
			if err != nil {
				return apperror.NewInternal(err).WithDetail("number", number)
			}

			c := &Customer{
				ID:        id.New(),
				Number:    number,
				PeriodKey: parts.PeriodKey,
				Sequence:  parts.Sequence,
				FullName:  in.FullName,
				Phone:     in.Phone,
				CreatedAt: s.now().UTC(),
			}
			if in.Email != "" {
				email := in.Email
				c.Email = &email
			}
			if err := s.repo.Create(ctx, c); err != nil {
				return err
			}
			created = c
			return nil
		})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "customer number issued", "number", created.Number, "id", created.ID)
	return created, nil
}

// GetByNumber retrieves a customer by number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Customer, error) {
	c, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("customer", number)
		}
		return nil, err
	}
	return c, nil
}

// List returns customers, optionally restricted to one month (PXCYYYYMM).
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Customer], error) {
	return s.repo.List(ctx, filter.Normalize())
}
