package records

import (
	"errors"
	"testing"
	"time"

	"clearview/internal/domain"
)

func TestLifecycleTransitions(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := &SoftDelete{ID: "t1", IsActive: true}

	if s.State() != StateActive {
		t.Fatalf("State() = %s, want active", s.State())
	}

	s.MarkDeleted(now)
	if s.State() != StateSoftDeleted || s.IsActive || s.DeletedAt == nil || !s.DeletedAt.Equal(now) {
		t.Fatalf("after MarkDeleted: %+v", s)
	}
	if err := s.CheckInvariants(); err != nil {
		t.Errorf("CheckInvariants() after delete = %v", err)
	}

	s.MarkRestored(now.Add(time.Minute), false)
	if s.State() != StateInactive || s.DeletedAt != nil {
		t.Fatalf("after MarkRestored: %+v", s)
	}

	s.MarkDeleted(now)
	s.MarkRestored(now, true)
	if s.State() != StateActive {
		t.Errorf("reactivating restore left state %s", s.State())
	}
}

func TestCheckInvariants(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		s    SoftDelete
		ok   bool
	}{
		{"active", SoftDelete{IsActive: true}, true},
		{"inactive", SoftDelete{}, true},
		{"deleted", SoftDelete{IsDeleted: true, DeletedAt: &now}, true},
		{"deleted without time", SoftDelete{IsDeleted: true}, false},
		{"time without deleted", SoftDelete{DeletedAt: &now}, false},
		{"deleted and active", SoftDelete{IsDeleted: true, IsActive: true, DeletedAt: &now}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.CheckInvariants()
			if tt.ok && err != nil {
				t.Errorf("CheckInvariants() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, domain.ErrInvariantViolation) {
				t.Errorf("CheckInvariants() = %v, want invariant violation", err)
			}
		})
	}
}

func TestTestimonialDefaults(t *testing.T) {
	tm := &Testimonial{AuthorName: " Dana ", Content: "Great", Rating: 5}
	tm.Normalize()
	if tm.Source != SourceManual || tm.AuthorName != "Dana" {
		t.Errorf("Normalize() = %+v", tm)
	}
	if err := tm.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	tm.Rating = 6
	if tm.Validate() == nil {
		t.Error("rating 6 should be rejected")
	}
}

func TestAppointmentRequiresSchedule(t *testing.T) {
	a := &Appointment{CustomerName: "Ari", Email: "ari@example.com", ServiceName: "Eye exam"}
	a.Normalize()
	if a.Status != AppointmentPending {
		t.Errorf("Status = %s, want pending", a.Status)
	}
	if a.Validate() == nil {
		t.Error("zero scheduled_at should be rejected")
	}
	a.ScheduledAt = time.Date(2026, 4, 2, 15, 30, 0, 0, time.UTC)
	if err := a.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}
