package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leavehub/leavehub/internal/domain/leave"
	"github.com/leavehub/leavehub/internal/observability"
)

type LeaveRequestsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewLeaveRequestsRepo(pool *pgxpool.Pool, prom *observability.Prom) *LeaveRequestsRepo {
	return &LeaveRequestsRepo{pool: pool, prom: prom}
}

func (r *LeaveRequestsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *LeaveRequestsRepo) Create(ctx context.Context, req leave.Request) (leave.Request, error) {
	err := r.observe("leave_requests.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO leave_requests (user_id, leave_type, start_date, end_date, reason, status, applied_on)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			req.UserID, int(req.Type), req.StartDate, req.EndDate, req.Reason, int(req.Status), req.AppliedOn,
		).Scan(&req.ID)
	})

	if err != nil {
		return leave.Request{}, err
	}

	return req, nil
}

func (r *LeaveRequestsRepo) ListByUser(ctx context.Context, userID int64) ([]leave.Request, error) {
	var out []leave.Request

	err := r.observe("leave_requests.list_by_user", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, user_id, leave_type, start_date, end_date, reason, status, applied_on
			 FROM leave_requests
			 WHERE user_id = $1`,
			userID,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]leave.Request, 0)

		for rows.Next() {
			var lr leave.Request

			err = rows.Scan(&lr.ID, &lr.UserID, &lr.Type, &lr.StartDate, &lr.EndDate, &lr.Reason, &lr.Status, &lr.AppliedOn)

			if err != nil {
				return err
			}

			out = append(out, lr)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// ListAll returns every request with the owning user's identity attached.
func (r *LeaveRequestsRepo) ListAll(ctx context.Context) ([]leave.RequestWithUser, error) {
	var out []leave.RequestWithUser

	err := r.observe("leave_requests.list_all", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT lr.id, lr.user_id, lr.leave_type, lr.start_date, lr.end_date, lr.reason, lr.status, lr.applied_on,
			        u.name, u.email
			 FROM leave_requests lr
			 JOIN users u ON u.id = lr.user_id`,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]leave.RequestWithUser, 0)

		for rows.Next() {
			var lr leave.RequestWithUser

			err = rows.Scan(&lr.ID, &lr.UserID, &lr.Type, &lr.StartDate, &lr.EndDate, &lr.Reason, &lr.Status, &lr.AppliedOn, &lr.UserName, &lr.UserEmail)

			if err != nil {
				return err
			}

			out = append(out, lr)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// SetStatus moves a Pending request to a terminal status. A decided request
// is never overwritten: the update matches Pending rows only, and the two
// failure shapes come back as distinct sentinels for the boundary to merge.
func (r *LeaveRequestsRepo) SetStatus(ctx context.Context, id int64, status leave.Status) error {
	return r.observe("leave_requests.set_status", func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE leave_requests
			 SET status = $2
			 WHERE id = $1 AND status = $3`,
			id, int(status), int(leave.StatusPending),
		)

		if err != nil {
			return err
		}

		if tag.RowsAffected() > 0 {
			return nil
		}

		// nothing updated: absent, or present but already decided
		var dummy int64

		err = r.pool.QueryRow(ctx, `SELECT id FROM leave_requests WHERE id = $1`, id).Scan(&dummy)

		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrNotFound
		}

		if err != nil {
			return err
		}

		return leave.ErrNotPending
	})
}

// DeletePendingByOwner removes a request only when id, owner and Pending
// status all line up. Any mismatch deletes nothing.
func (r *LeaveRequestsRepo) DeletePendingByOwner(ctx context.Context, id, userID int64) error {
	return r.observe("leave_requests.delete_pending_by_owner", func() error {
		tag, err := r.pool.Exec(ctx,
			`DELETE FROM leave_requests
			 WHERE id = $1 AND user_id = $2 AND status = $3`,
			id, userID, int(leave.StatusPending),
		)

		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return leave.ErrNotFound
		}

		return nil
	})
}

// Report builds the denormalized export. Filters are independently optional
// and ANDed together; date formatting happens here so the payload is ready
// for a spreadsheet.
func (r *LeaveRequestsRepo) Report(ctx context.Context, q leave.ReportQuery) ([]leave.ReportRow, error) {
	baseQuery := `SELECT u.name, u.email, lr.start_date, lr.end_date, lr.leave_type, lr.status, lr.applied_on
	 FROM leave_requests lr
	 JOIN users u ON u.id = lr.user_id`

	var conds []string
	var args []interface{}

	argsPosition := 1

	if q.From != nil {
		conds = append(conds, fmt.Sprintf("lr.start_date >= $%d", argsPosition))
		args = append(args, *q.From)
		argsPosition++
	}

	if q.To != nil {
		conds = append(conds, fmt.Sprintf("lr.end_date <= $%d", argsPosition))
		args = append(args, *q.To)
		argsPosition++
	}

	if q.Type != 0 {
		conds = append(conds, fmt.Sprintf("lr.leave_type = $%d", argsPosition))
		args = append(args, int(q.Type))
		argsPosition++
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	var out []leave.ReportRow

	err := r.observe("leave_requests.report", func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]leave.ReportRow, 0)

		for rows.Next() {
			var (
				row              leave.ReportRow
				start, end, appl time.Time
				leaveType        leave.Type
				status           leave.Status
			)

			err = rows.Scan(&row.UserName, &row.UserEmail, &start, &end, &leaveType, &status, &appl)

			if err != nil {
				return err
			}

			row.StartDate = leave.FormatReportDate(start)
			row.EndDate = leave.FormatReportDate(end)
			row.LeaveType = leaveType.String()
			row.Status = status.String()
			row.AppliedOn = leave.FormatReportDate(appl)

			out = append(out, row)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// Balances counts Approved requests per user per type. Users with no
// approved requests do not appear, a consequence of grouping over existing
// rows rather than over users.
func (r *LeaveRequestsRepo) Balances(ctx context.Context) ([]leave.Balance, error) {
	var out []leave.Balance

	err := r.observe("leave_requests.balances", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT u.name,
			        COUNT(*) FILTER (WHERE lr.leave_type = $2),
			        COUNT(*) FILTER (WHERE lr.leave_type = $3),
			        COUNT(*) FILTER (WHERE lr.leave_type = $4),
			        COUNT(*) FILTER (WHERE lr.leave_type = $5)
			 FROM leave_requests lr
			 JOIN users u ON u.id = lr.user_id
			 WHERE lr.status = $1
			 GROUP BY lr.user_id, u.name`,
			int(leave.StatusApproved),
			int(leave.TypeSick), int(leave.TypeCasual), int(leave.TypeVacation), int(leave.TypeWedding),
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]leave.Balance, 0)

		for rows.Next() {
			var b leave.Balance

			err = rows.Scan(&b.EmployeeName, &b.SickLeave, &b.CasualLeave, &b.VacationLeave, &b.WeddingLeave)

			if err != nil {
				return err
			}

			out = append(out, b)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}
