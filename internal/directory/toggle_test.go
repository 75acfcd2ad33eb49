package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/ehr/hms/internal/domain/staff"
)

func TestToggle_ActiveToInactive(t *testing.T) {
	src := newFakeSource(1)
	member := *src.staff[0]

	d, err := OpenToggle(src, &member)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Title() != "Deactivate Staff Member" {
		t.Errorf("unexpected title %q", d.Title())
	}
	if d.Message() != "Are you sure you want to deactivate Staff 00?" {
		t.Errorf("unexpected message %q", d.Message())
	}

	res, err := d.Confirm(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Staff.Status != staff.StatusInactive {
		t.Errorf("expected inactive, got %s", res.Staff.Status)
	}
	if res.Toast != "Staff 00 has been deactivated" {
		t.Errorf("unexpected toast %q", res.Toast)
	}
	if len(src.updates) != 1 || src.updates[0].Status != staff.StatusInactive {
		t.Errorf("expected one update sent to the source, got %+v", src.updates)
	}
	if member.Status != staff.StatusActive {
		t.Error("expected the caller's record to be left unchanged")
	}
}

func TestToggle_InactiveToActive(t *testing.T) {
	src := newFakeSource(2)
	d, err := OpenToggle(src, src.staff[1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := d.Confirm(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Staff.Status != staff.StatusActive {
		t.Errorf("expected active, got %s", res.Staff.Status)
	}
	if res.Toast != "Staff 01 has been activated" {
		t.Errorf("unexpected toast %q", res.Toast)
	}
}

func TestToggle_OnLeaveUnavailable(t *testing.T) {
	src := newFakeSource(3)
	_, err := OpenToggle(src, src.staff[2])
	if !errors.Is(err, ErrToggleUnavailable) {
		t.Errorf("expected ErrToggleUnavailable, got %v", err)
	}
	if len(src.updates) != 0 {
		t.Error("expected no update")
	}
}

func TestToggle_UpdateFailure(t *testing.T) {
	src := newFakeSource(1)
	src.updateErr = errors.New("connection reset")

	d, _ := OpenToggle(src, src.staff[0])
	if _, err := d.Confirm(context.Background()); err == nil {
		t.Fatal("expected error from source update")
	}
}
