package leave

import "time"

// ReportFilter carries the optional report constraints. Empty dates and a
// zero leave type mean "no filter" for that field.
type ReportFilter struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	LeaveType int    `json:"leaveType"`
}

// ReportRow is the denormalized export shape: every field pre-formatted as
// text so the payload can feed a spreadsheet as-is.
type ReportRow struct {
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	LeaveType string `json:"leaveType"`
	Status    string `json:"status"`
	AppliedOn string `json:"appliedOn"`
}

const reportDateLayout = "2006-01-02"

func FormatReportDate(t time.Time) string {
	return t.Format(reportDateLayout)
}

func ParseReportDate(raw string) (time.Time, error) {
	return time.Parse(reportDateLayout, raw)
}

// ReportQuery is the parsed form of a ReportFilter. Nil pointers mean the
// bound is not applied; a zero Type means every type.
type ReportQuery struct {
	From *time.Time
	To   *time.Time
	Type Type
}

// Balance counts a user's Approved requests per leave type. Users with no
// approved requests have no row at all.
type Balance struct {
	EmployeeName  string `json:"employeeName"`
	SickLeave     int    `json:"sickLeaveBalance"`
	CasualLeave   int    `json:"casualLeaveBalance"`
	VacationLeave int    `json:"vacationLeaveBalance"`
	WeddingLeave  int    `json:"weddingLeaveBalance"`
}
