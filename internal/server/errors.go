package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/authorization"
	payoutdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/domain"
	settingsdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payoutsettings/domain"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/pkg/db/pagination"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not_found")
	ErrRateLimited  = errors.New("rate_limited")
)

type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e apiError) Error() string { return e.Message }

func newValidationError(field, code, message string) error {
	return apiError{
		Status:  http.StatusBadRequest,
		Code:    code,
		Field:   field,
		Message: message,
	}
}

func invalidRequestError() error {
	return apiError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_request",
		Message: "invalid request",
	}
}

// AbortWithError maps domain errors onto HTTP responses. Unknown errors are
// masked as a 500 so internals never leak to callers.
func AbortWithError(c *gin.Context, err error) {
	var api apiError
	if errors.As(err, &api) {
		c.AbortWithStatusJSON(api.Status, gin.H{"error": api})
		return
	}

	status := http.StatusInternalServerError
	code := "internal_error"
	message := "internal error"

	switch {
	case errors.Is(err, ErrUnauthorized):
		status, code, message = http.StatusUnauthorized, "unauthorized", "unauthorized"
	case errors.Is(err, ErrForbidden), errors.Is(err, authorization.ErrForbidden):
		status, code, message = http.StatusForbidden, "forbidden", "forbidden"
	case errors.Is(err, ErrNotFound):
		status, code, message = http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, ErrRateLimited):
		status, code, message = http.StatusTooManyRequests, "rate_limited", "too many requests"
	case errors.Is(err, pagination.ErrInvalidPageToken):
		status, code, message = http.StatusBadRequest, "invalid_page_token", "invalid page token"
	case errors.Is(err, payoutdomain.ErrInvalidSeller),
		errors.Is(err, payoutdomain.ErrInvalidPayout),
		errors.Is(err, payoutdomain.ErrInvalidPeriod),
		errors.Is(err, payoutdomain.ErrInvalidStatus),
		errors.Is(err, settingsdomain.ErrInvalidSeller),
		errors.Is(err, settingsdomain.ErrInvalidSchedule),
		errors.Is(err, settingsdomain.ErrInvalidPayoutDay),
		errors.Is(err, settingsdomain.ErrInvalidMinAmount),
		errors.Is(err, settingsdomain.ErrInvalidHoldDays):
		status, code, message = http.StatusBadRequest, err.Error(), err.Error()
	case errors.Is(err, payoutdomain.ErrEligibilityChanged):
		status, code, message = http.StatusConflict, "eligibility_changed", "eligible invoices changed, retry"
	}

	c.AbortWithStatusJSON(status, gin.H{"error": apiError{
		Status:  status,
		Code:    code,
		Message: message,
	}})
}

func parseOptionalTime(value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if at, err := time.Parse(time.RFC3339, value); err == nil {
		utc := at.UTC()
		return &utc, nil
	}
	at, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		at = at.Add(24*time.Hour - time.Nanosecond)
	}
	utc := at.UTC()
	return &utc, nil
}
