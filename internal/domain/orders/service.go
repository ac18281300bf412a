package orders

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

// Service places orders and mints their numbers.
type Service struct {
	repo   Repository
	gen    numerator.Generator
	issuer *domain.Issuer
	now    func() time.Time
}

// NewService creates a new Order service.
func NewService(repo Repository, gen numerator.Generator, issuer *domain.Issuer) *Service {
	return &Service{
		repo:   repo,
		gen:    gen,
		issuer: issuer,
		now:    time.Now,
	}
}

// Create allocates the next order number for the current day and stores the order.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Order, error) {
	in = in.normalized()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var created *Order
	err := s.issuer.Issue(ctx,
		func() string { return s.gen.PeriodKey(numerator.KindOrder) },
		func(ctx context.Context, periodKey string) error {
			pool, err := s.repo.Numbers(ctx, periodKey)
			if err != nil {
				return fmt.Errorf("read order pool: %w", err)
			}

			number, err := s.gen.GenerateOrderID(pool, in.FullName, in.Phone)
			if err != nil {
				return err
			}
			parts, err := numerator.Parse(numerator.KindOrder, number)
			if err != nil {
				return apperror.NewInternal(err).WithDetail("number", number)
			}

			order := &Order{
				ID:        id.New(),
				Number:    number,
				PeriodKey: parts.PeriodKey,
				Sequence:  parts.Sequence,
				FullName:  in.FullName,
				Phone:     in.Phone,
				Total:     in.Total,
				CreatedAt: s.now().UTC(),
			}
			if err := s.repo.Create(ctx, order); err != nil {
				return err
			}
			created = order
			return nil
		})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order number issued", "number", created.Number, "id", created.ID)
	return created, nil
}

// GetByNumber retrieves an order by its number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Order, error) {
	order, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("order", number)
		}
		return nil, err
	}
	return order, nil
}

// List returns orders, optionally restricted to one day (YYMMDD).
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Order], error) {
	return s.repo.List(ctx, filter.Normalize())
}
