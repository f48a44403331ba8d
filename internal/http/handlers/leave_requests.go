package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leavehub/leavehub/internal/cache"
	"github.com/leavehub/leavehub/internal/config"
	"github.com/leavehub/leavehub/internal/domain/leave"
	"github.com/leavehub/leavehub/internal/domain/user"
	"github.com/leavehub/leavehub/internal/http/middlewares"
	"github.com/leavehub/leavehub/internal/observability"
)

type LeaveStore interface {
	Create(ctx context.Context, req leave.Request) (leave.Request, error)
	ListByUser(ctx context.Context, userID int64) ([]leave.Request, error)
	ListAll(ctx context.Context) ([]leave.RequestWithUser, error)
	SetStatus(ctx context.Context, id int64, status leave.Status) error
	DeletePendingByOwner(ctx context.Context, id, userID int64) error
	Report(ctx context.Context, q leave.ReportQuery) ([]leave.ReportRow, error)
	Balances(ctx context.Context) ([]leave.Balance, error)
}

const (
	cacheKeyAdminList = "admin:requests"
	cacheKeyBalances  = "admin:balances"
)

type LeaveHandler struct {
	store LeaveStore
	cache cache.Store
	prom  *observability.Prom
}

func NewLeaveHandler(store LeaveStore, cacheStore cache.Store, prom *observability.Prom) *LeaveHandler {
	return &LeaveHandler{store: store, cache: cacheStore, prom: prom}
}

func (h *LeaveHandler) countTransition(transition, result string) {
	if h.prom != nil {
		h.prom.TransitionsTotal.WithLabelValues(transition, result).Inc()
	}
}

// any successful write makes the cached admin views stale
func (h *LeaveHandler) invalidate(ctx context.Context) {
	if h.cache != nil {
		h.cache.Delete(ctx, cacheKeyAdminList, cacheKeyBalances)
	}
}

// Submit creates a Pending request owned by the caller. Dates are trusted
// as parsed; applied-on is always the server clock.
func (h *LeaveHandler) Submit(ctx *gin.Context) {
	var req leave.SubmitRequest

	if !BindJSON(ctx, &req) {
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == 0 {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	start, err := parseDate(req.StartDate)

	if err != nil {
		RespondBadRequest(ctx, "startDate must be a valid date", nil)
		return
	}

	end, err := parseDate(req.EndDate)

	if err != nil {
		RespondBadRequest(ctx, "endDate must be a valid date", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	created, err := h.store.Create(cctx, leave.NewFromSubmit(userID, leave.Type(req.LeaveType), start, end, req.Reason))

	if err != nil {
		h.countTransition("submit", "error")
		RespondInternal(ctx, "Could not submit leave request")
		return
	}

	h.countTransition("submit", "ok")
	h.invalidate(cctx)

	ctx.JSON(http.StatusCreated, created)
}

// History returns the caller's own requests. The path id is honored only
// for Admin callers; everyone else is pinned to the token subject.
func (h *LeaveHandler) History(ctx *gin.Context) {
	pathID, err := parseID(ctx.Param("userId"))

	if err != nil {
		RespondBadRequest(ctx, "userId must be numeric", nil)
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == 0 {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	role, _ := middlewares.RoleFromContext(ctx)

	if role == user.RoleAdmin {
		userID = pathID
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	items, err := h.store.ListByUser(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list leave requests")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// Cancel deletes the caller's own Pending request. Wrong owner, wrong
// status and wrong id all fail the same way.
func (h *LeaveHandler) Cancel(ctx *gin.Context) {
	id, err := parseID(ctx.Param("id"))

	if err != nil {
		RespondBadRequest(ctx, "id must be numeric", nil)
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == 0 {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err = h.store.DeletePendingByOwner(cctx, id, userID)

	if err != nil {
		if errors.Is(err, leave.ErrNotFound) {
			h.countTransition("cancel", "rejected")
			RespondNotFound(ctx, "Leave request not found")
			return
		}

		h.countTransition("cancel", "error")
		RespondInternal(ctx, "Could not cancel leave request")
		return
	}

	h.countTransition("cancel", "ok")
	h.invalidate(cctx)

	ctx.Status(http.StatusNoContent)
}

func (h *LeaveHandler) AdminList(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	if h.cache != nil {
		if payload, ok := h.cache.Get(cctx, cacheKeyAdminList); ok {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", payload)
			return
		}
	}

	items, err := h.store.ListAll(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list leave requests")
		return
	}

	body := gin.H{
		"items": items,
		"count": len(items),
	}

	if h.cache != nil {
		if payload, err := json.Marshal(body); err == nil {
			h.cache.Set(cctx, cacheKeyAdminList, payload)
		}
	}

	ctx.JSON(http.StatusOK, body)
}

func (h *LeaveHandler) Approve(ctx *gin.Context) {
	h.decide(ctx, "approve", leave.StatusApproved)
}

func (h *LeaveHandler) Reject(ctx *gin.Context) {
	h.decide(ctx, "reject", leave.StatusRejected)
}

// decide is the shared approve/reject path. Absent and already-decided
// requests surface as the same not-found outcome.
func (h *LeaveHandler) decide(ctx *gin.Context, transition string, status leave.Status) {
	id, err := parseID(ctx.Param("id"))

	if err != nil {
		RespondBadRequest(ctx, "id must be numeric", nil)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err = h.store.SetStatus(cctx, id, status)

	if err != nil {
		if errors.Is(err, leave.ErrNotFound) || errors.Is(err, leave.ErrNotPending) {
			h.countTransition(transition, "rejected")
			RespondNotFound(ctx, "Leave request not found")
			return
		}

		h.countTransition(transition, "error")
		RespondInternal(ctx, "Could not update leave request")
		return
	}

	h.countTransition(transition, "ok")
	h.invalidate(cctx)

	ctx.Status(http.StatusOK)
}

func (h *LeaveHandler) Report(ctx *gin.Context) {
	var filter leave.ReportFilter

	if !BindJSON(ctx, &filter) {
		return
	}

	var q leave.ReportQuery

	if filter.StartDate != "" {
		from, err := leave.ParseReportDate(filter.StartDate)

		if err != nil {
			RespondBadRequest(ctx, "startDate must be formatted as 2006-01-02", nil)
			return
		}

		q.From = &from
	}

	if filter.EndDate != "" {
		to, err := leave.ParseReportDate(filter.EndDate)

		if err != nil {
			RespondBadRequest(ctx, "endDate must be formatted as 2006-01-02", nil)
			return
		}

		q.To = &to
	}

	// zero means all types, any other value filters by equality
	q.Type = leave.Type(filter.LeaveType)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	rows, err := h.store.Report(cctx, q)

	if err != nil {
		RespondInternal(ctx, "Could not generate report")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": rows,
		"count": len(rows),
	})
}

func (h *LeaveHandler) Balances(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	if h.cache != nil {
		if payload, ok := h.cache.Get(cctx, cacheKeyBalances); ok {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", payload)
			return
		}
	}

	balances, err := h.store.Balances(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not compute leave balances")
		return
	}

	body := gin.H{
		"items": balances,
		"count": len(balances),
	}

	if h.cache != nil {
		if payload, err := json.Marshal(body); err == nil {
			h.cache.Set(cctx, cacheKeyBalances, payload)
		}
	}

	ctx.JSON(http.StatusOK, body)
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

// submit dates accept plain dates and full RFC3339 timestamps
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}

	return time.Parse(time.RFC3339, raw)
}
