// Package directory builds the staff directory view: a filtered, paginated
// table whose rows carry the actions available on each staff member. All
// reads and writes go through a Source.
package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ehr/hms/internal/domain/staff"
	"github.com/ehr/hms/internal/platform/apperr"
	"github.com/ehr/hms/pkg/pagination"
)

var (
	ErrToggleUnavailable = apperr.Conflict("status toggle is only available for active or inactive staff")
	ErrInvalidPageSize   = apperr.Invalid(fmt.Sprintf("page size must be one of %v", PageSizeOptions))
)

// Source supplies staff data to the directory and accepts its edits.
type Source interface {
	Fetch(ctx context.Context, f staff.Filter, page, pageSize int) (*staff.Page, error)
	Update(ctx context.Context, s *staff.Staff) error
	Facets(ctx context.Context) (*staff.Facets, error)
}

const (
	ActionView         = "view"
	ActionEdit         = "edit"
	ActionToggleStatus = "toggle-status"
)

type Action struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type Row struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Role        string       `json:"role"`
	Department  string       `json:"department"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	JoiningDate string       `json:"joining_date"`
	Status      staff.Status `json:"status"`
	Actions     []Action     `json:"actions"`
}

// Request selects what the directory shows. Page is 0-based; a zero
// PageSize means DefaultPageSize.
type Request struct {
	Filter   staff.Filter
	Page     int
	PageSize int
}

type View struct {
	Filter          staff.Filter  `json:"filter"`
	Rows            []Row         `json:"rows"`
	Pagination      Pagination    `json:"pagination"`
	PageSizeOptions []int         `json:"page_size_options"`
	Facets          *staff.Facets `json:"facets"`
}

// Build fetches one page through src and lays it out. A page past the end
// of the results is replaced by the last page.
func Build(ctx context.Context, src Source, req Request) (*View, error) {
	if req.PageSize == 0 {
		req.PageSize = DefaultPageSize
	}
	if !ValidPageSize(req.PageSize) {
		return nil, ErrInvalidPageSize
	}
	if req.Page < 0 {
		req.Page = 0
	}

	page, err := src.Fetch(ctx, req.Filter, req.Page, req.PageSize)
	if err != nil {
		return nil, fmt.Errorf("fetch staff page: %w", err)
	}
	if last := pagination.TotalPages(page.Total, req.PageSize) - 1; last >= 0 && req.Page > last {
		req.Page = last
		if page, err = src.Fetch(ctx, req.Filter, req.Page, req.PageSize); err != nil {
			return nil, fmt.Errorf("fetch staff page: %w", err)
		}
	}

	facets, err := src.Facets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load staff facets: %w", err)
	}

	rows := make([]Row, 0, len(page.Items))
	for _, s := range page.Items {
		rows = append(rows, RowFor(s))
	}
	return &View{
		Filter:          req.Filter,
		Rows:            rows,
		Pagination:      Paginate(req.Page, req.PageSize, page.Total),
		PageSizeOptions: PageSizeOptions,
		Facets:          facets,
	}, nil
}

// RowFor lays out one staff member. Only active and inactive rows offer the
// status toggle.
func RowFor(s *staff.Staff) Row {
	actions := []Action{
		{ID: ActionView, Label: "View Profile"},
		{ID: ActionEdit, Label: "Edit"},
	}
	switch s.Status {
	case staff.StatusActive:
		actions = append(actions, Action{ID: ActionToggleStatus, Label: "Deactivate"})
	case staff.StatusInactive:
		actions = append(actions, Action{ID: ActionToggleStatus, Label: "Activate"})
	}

	var joined string
	if !s.JoiningDate.IsZero() {
		joined = s.JoiningDate.Format("2006-01-02")
	}
	return Row{
		ID:          s.ID,
		Name:        s.FullName(),
		Role:        s.Role,
		Department:  s.Department,
		Email:       s.Email,
		Phone:       s.Phone,
		JoiningDate: joined,
		Status:      s.Status,
		Actions:     actions,
	}
}
