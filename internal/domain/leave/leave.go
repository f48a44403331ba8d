package leave

import (
	"errors"
	"fmt"
	"time"
)

// Type enumerates the leave categories. Values are part of the wire
// contract (submit payloads and report filters carry the number).
type Type int

const (
	TypeSick     Type = 1
	TypeCasual   Type = 2
	TypeVacation Type = 3
	TypeWedding  Type = 4
)

func (t Type) String() string {
	switch t {
	case TypeSick:
		return "Sick"
	case TypeCasual:
		return "Casual"
	case TypeVacation:
		return "Vacation"
	case TypeWedding:
		return "Wedding"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

func (t Type) Valid() bool {
	return t >= TypeSick && t <= TypeWedding
}

func ParseType(name string) (Type, error) {
	switch name {
	case "Sick":
		return TypeSick, nil
	case "Casual":
		return TypeCasual, nil
	case "Vacation":
		return TypeVacation, nil
	case "Wedding":
		return TypeWedding, nil
	default:
		return 0, fmt.Errorf("unknown leave type %q", name)
	}
}

// Status is the request lifecycle state. Pending is the only state a
// request can leave; Approved and Rejected are terminal.
type Status int

const (
	StatusPending  Status = 0
	StatusApproved Status = 1
	StatusRejected Status = -1
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func ParseStatus(name string) (Status, error) {
	switch name {
	case "Pending":
		return StatusPending, nil
	case "Approved":
		return StatusApproved, nil
	case "Rejected":
		return StatusRejected, nil
	default:
		return 0, fmt.Errorf("unknown leave status %q", name)
	}
}

type Request struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Type      Type      `json:"leaveType"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Reason    string    `json:"reason"`
	Status    Status    `json:"status"`
	AppliedOn time.Time `json:"appliedOn"`
}

// RequestWithUser is the admin view: the request plus its owner's identity.
type RequestWithUser struct {
	Request
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
}

var ErrNotFound = errors.New("leave request not found")

// ErrNotPending marks a request that exists but is no longer Pending.
// The HTTP boundary reports it the same way as ErrNotFound.
var ErrNotPending = errors.New("leave request is not pending")

type SubmitRequest struct {
	LeaveType int    `json:"leaveType" binding:"required,min=1,max=4"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Reason    string `json:"reason" binding:"required,max=500"`
}

// CreateRequest is the persisted form of a submission. Dates are caller
// supplied and trusted as parsed; status and applied-on are never.
type CreateRequest struct {
	UserID    int64
	Type      Type
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

func NewFromSubmit(userID int64, leaveType Type, start, end time.Time, reason string) Request {
	return Request{
		UserID:    userID,
		Type:      leaveType,
		StartDate: start,
		EndDate:   end,
		Reason:    reason,
		Status:    StatusPending,
		AppliedOn: time.Now().UTC(),
	}
}
