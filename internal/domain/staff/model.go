package staff

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusOnLeave  Status = "on-leave"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusOnLeave:
		return true
	}
	return false
}

// Toggled returns the opposite of an active or inactive status. On-leave has
// no binary opposite and reports false.
func (s Status) Toggled() (Status, bool) {
	switch s {
	case StatusActive:
		return StatusInactive, true
	case StatusInactive:
		return StatusActive, true
	}
	return s, false
}

// Staff maps to the staff table.
type Staff struct {
	ID          uuid.UUID `db:"id" json:"id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	Role        string    `db:"role" json:"role"`
	Department  string    `db:"department" json:"department"`
	Email       string    `db:"email" json:"email"`
	Phone       string    `db:"phone" json:"phone"`
	JoiningDate time.Time `db:"joining_date" json:"joining_date"`
	Status      Status    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func (s *Staff) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Filter narrows a staff listing. Empty fields match everything; Search
// matches name, email, role and department case-insensitively.
type Filter struct {
	Search     string `json:"search,omitempty"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role,omitempty"`
	Status     Status `json:"status,omitempty"`
}

// Stats counts staff by status.
type Stats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	OnLeave  int `json:"on_leave"`
}

// Facets are the choices a directory offers for filtering, plus headline counts.
type Facets struct {
	Departments []string `json:"departments"`
	Roles       []string `json:"roles"`
	Stats       Stats    `json:"stats"`
}

// Page is one page of a filtered listing.
type Page struct {
	Items []*Staff `json:"items"`
	Total int      `json:"total"`
}
