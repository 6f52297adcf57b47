// Package http provides http transport for tweets
package http

import (
	stdhttp "net/http"
	"strconv"
	"time"

	"birdwatch/internal/modkit/httpkit"
	perr "birdwatch/internal/platform/errors"
	"birdwatch/internal/platform/net/http/bind"
	"birdwatch/internal/services/api/tweets/domain"
	svc "birdwatch/internal/services/api/tweets/service"
)

// Register mounts tweets endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	r.Post("/process", httpkit.Handle(h.process))
	httpkit.Get(r, "/violations", h.violations)
	httpkit.Get(r, "/scanned-users", h.scannedUsers)
}

type handlers struct{ svc svc.Service }

// @Summary Start a compliance scan for a set of usernames
// @Tags Tweets
// @Accept json
// @Produce json
// @Param payload body domain.ProcessInput true "Scan request"
// @Success 202 {object} domain.ProcessAck "accepted"
// @Router /tweets/process [post]
func (h *handlers) process(r *stdhttp.Request) httpkit.Response {
	in, err := bind.ParseJSON[domain.ProcessInput](r)
	if err != nil {
		return httpkit.Error(err)
	}
	ack, err := h.svc.Process(r.Context(), in)
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.Accepted(ack)
}

// @Summary List stored violations
// @Tags Tweets
// @Produce json
// @Param username query string false "Filter by username"
// @Param policy query string false "Filter by policy name"
// @Param rule_id query string false "Filter by rule id"
// @Param start_date query string false "Posts at or after this date (YYYY-MM-DD or RFC3339)"
// @Param end_date query string false "Posts before this date (YYYY-MM-DD or RFC3339)"
// @Param limit query int false "Page size, 1..1000 (default 100)"
// @Param offset query int false "Rows to skip"
// @Success 200 {array} domain.ViolationRow "ok"
// @Router /tweets/violations [get]
func (h *handlers) violations(r *stdhttp.Request) (any, error) {
	qs := r.URL.Query()

	q := domain.ViolationsQuery{
		Username: qs.Get("username"),
		Policy:   qs.Get("policy"),
		RuleID:   qs.Get("rule_id"),
	}

	var err error
	if q.StartDate, err = parseDate(qs.Get("start_date")); err != nil {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "invalid start_date %q", qs.Get("start_date"))
	}
	if q.EndDate, err = parseDate(qs.Get("end_date")); err != nil {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "invalid end_date %q", qs.Get("end_date"))
	}
	if q.Limit, err = parseInt(qs.Get("limit")); err != nil {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "invalid limit %q", qs.Get("limit"))
	}
	if q.Offset, err = parseInt(qs.Get("offset")); err != nil {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "invalid offset %q", qs.Get("offset"))
	}

	return h.svc.Violations(r.Context(), q)
}

// @Summary List scanned users with their checkpoints
// @Tags Tweets
// @Produce json
// @Success 200 {array} domain.ScannedUserRow "ok"
// @Router /tweets/scanned-users [get]
func (h *handlers) scannedUsers(r *stdhttp.Request) (any, error) {
	return h.svc.ScannedUsers(r.Context())
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
