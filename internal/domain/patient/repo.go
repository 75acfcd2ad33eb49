package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts p and fills in its database-assigned fields.
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	// Update overwrites the row with p.ID, returning ErrPatientNotFound when
	// no such row exists.
	Update(ctx context.Context, p *Patient) error
	// Delete removes the row with id. Deleting a missing row is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, f Filter, limit, offset int) ([]*Patient, int, error)
}
