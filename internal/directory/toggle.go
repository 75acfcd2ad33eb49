package directory

import (
	"context"
	"fmt"

	"github.com/ehr/hms/internal/domain/staff"
)

// ToggleDialog confirms flipping a staff member between active and inactive.
type ToggleDialog struct {
	src    Source
	member staff.Staff
	target staff.Status
}

// OpenToggle prepares the dialog for s. On-leave staff have no toggle and
// yield ErrToggleUnavailable.
func OpenToggle(src Source, s *staff.Staff) (*ToggleDialog, error) {
	target, ok := s.Status.Toggled()
	if !ok {
		return nil, ErrToggleUnavailable
	}
	return &ToggleDialog{src: src, member: *s, target: target}, nil
}

func (d *ToggleDialog) Target() staff.Status { return d.target }

func (d *ToggleDialog) verb() string {
	if d.target == staff.StatusInactive {
		return "deactivate"
	}
	return "activate"
}

func (d *ToggleDialog) Title() string {
	if d.target == staff.StatusInactive {
		return "Deactivate Staff Member"
	}
	return "Activate Staff Member"
}

func (d *ToggleDialog) Message() string {
	return fmt.Sprintf("Are you sure you want to %s %s?", d.verb(), d.member.FullName())
}

// ToggleResult is the saved record and the notice to show the user.
type ToggleResult struct {
	Staff *staff.Staff `json:"staff"`
	Toast string       `json:"toast"`
}

// Confirm sends a copy of the staff member with the toggled status to the
// source. The dialog's own copy is left unchanged.
func (d *ToggleDialog) Confirm(ctx context.Context) (*ToggleResult, error) {
	updated := d.member
	updated.Status = d.target
	if err := d.src.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("%s %s: %w", d.verb(), updated.ID, err)
	}
	return &ToggleResult{
		Staff: &updated,
		Toast: fmt.Sprintf("%s has been %sd", updated.FullName(), d.verb()),
	}, nil
}
