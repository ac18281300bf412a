package orders

import (
	"pxc/internal/domain"
)

// Repository defines the interface for Order persistence.
type Repository interface {
	domain.NumberedRepository[*Order]
}
