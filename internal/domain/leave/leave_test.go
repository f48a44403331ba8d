package leave_test

import (
	"testing"

	"github.com/leavehub/leavehub/internal/domain/leave"
)

func TestTypeRoundTrip(t *testing.T) {
	tests := []struct {
		typ  leave.Type
		name string
	}{
		{leave.TypeSick, "Sick"},
		{leave.TypeCasual, "Casual"},
		{leave.TypeVacation, "Vacation"},
		{leave.TypeWedding, "Wedding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}

			parsed, err := leave.ParseType(tt.name)

			if err != nil {
				t.Fatalf("ParseType(%q): %v", tt.name, err)
			}

			if parsed != tt.typ {
				t.Errorf("ParseType(%q) = %d, want %d", tt.name, parsed, tt.typ)
			}

			if !tt.typ.Valid() {
				t.Errorf("Valid() = false for %q", tt.name)
			}
		})
	}
}

func TestTypeInvalid(t *testing.T) {
	for _, v := range []leave.Type{0, 5, -1} {
		if v.Valid() {
			t.Errorf("Valid() = true for %d", v)
		}
	}

	if _, err := leave.ParseType("Sabbatical"); err == nil {
		t.Errorf("ParseType accepted unknown name")
	}
}

func TestStatusRoundTrip(t *testing.T) {
	tests := []struct {
		status leave.Status
		name   string
	}{
		{leave.StatusPending, "Pending"},
		{leave.StatusApproved, "Approved"},
		{leave.StatusRejected, "Rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}

			parsed, err := leave.ParseStatus(tt.name)

			if err != nil {
				t.Fatalf("ParseStatus(%q): %v", tt.name, err)
			}

			if parsed != tt.status {
				t.Errorf("ParseStatus(%q) = %d, want %d", tt.name, parsed, tt.status)
			}
		})
	}

	if _, err := leave.ParseStatus("Withdrawn"); err == nil {
		t.Errorf("ParseStatus accepted unknown name")
	}
}

func TestNewFromSubmitDefaults(t *testing.T) {
	start, _ := leave.ParseReportDate("2026-09-01")
	end, _ := leave.ParseReportDate("2026-09-05")

	req := leave.NewFromSubmit(9, leave.TypeVacation, start, end, "family trip")

	if req.Status != leave.StatusPending {
		t.Errorf("got status %v, want Pending", req.Status)
	}

	if req.AppliedOn.IsZero() {
		t.Errorf("applied-on not stamped")
	}

	if req.UserID != 9 {
		t.Errorf("got user id %d, want 9", req.UserID)
	}
}

func TestReportDateRoundTrip(t *testing.T) {
	parsed, err := leave.ParseReportDate("2026-08-29")

	if err != nil {
		t.Fatalf("ParseReportDate: %v", err)
	}

	if got := leave.FormatReportDate(parsed); got != "2026-08-29" {
		t.Errorf("FormatReportDate = %q, want 2026-08-29", got)
	}

	if _, err := leave.ParseReportDate("29/08/2026"); err == nil {
		t.Errorf("ParseReportDate accepted non-ISO layout")
	}
}
