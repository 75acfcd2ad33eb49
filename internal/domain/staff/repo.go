package staff

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Staff) error
	GetByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	Update(ctx context.Context, s *Staff) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Staff, int, error)

	// FindAny returns some staff row with no ordering guarantee, or
	// ErrStaffNotFound when the table is empty.
	FindAny(ctx context.Context) (*Staff, error)

	Departments(ctx context.Context) ([]string, error)
	Roles(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (Stats, error)
}
