package customers

import (
	"pxc/internal/domain"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	domain.NumberedRepository[*Customer]
}
