package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	payoutdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/domain"
)

func TestRateLimiterWindow(t *testing.T) {
	limiter := newRateLimiter(2, 50*time.Millisecond)

	if !limiter.Allow("admin:1") || !limiter.Allow("admin:1") {
		t.Fatalf("first two requests must pass")
	}
	if limiter.Allow("admin:1") {
		t.Fatalf("third request in the window must be limited")
	}
	// Other keys are independent.
	if !limiter.Allow("admin:2") {
		t.Fatalf("different key must not be limited")
	}

	time.Sleep(60 * time.Millisecond)
	if !limiter.Allow("admin:1") {
		t.Fatalf("new window must reset the count")
	}
}

func TestRateLimiterRejectsEmptyKey(t *testing.T) {
	limiter := newRateLimiter(10, time.Minute)
	if limiter.Allow("") {
		t.Fatalf("empty key must be rejected")
	}
}

func TestRequestContextMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestContext())

	var gotSeller string
	engine.GET("/probe", func(c *gin.Context) {
		gotSeller = c.GetString("seller_id")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(headerSellerID, "1234")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if gotSeller != "1234" {
		t.Fatalf("seller id = %q, want 1234", gotSeller)
	}
	if rec.Header().Get(headerRequestID) == "" {
		t.Fatalf("request id header must be set")
	}

	// An inbound request id is echoed back unchanged.
	req = httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(headerRequestID, "req-42")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if got := rec.Header().Get(headerRequestID); got != "req-42" {
		t.Fatalf("request id = %q, want req-42", got)
	}
}

func TestAbortWithErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{ErrNotFound, http.StatusNotFound, "not_found"},
		{ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{payoutdomain.ErrInvalidPeriod, http.StatusBadRequest, "invalid_period"},
		{payoutdomain.ErrEligibilityChanged, http.StatusConflict, "eligibility_changed"},
		{errors.New("pq: connection reset"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		AbortWithError(c, tc.err)

		if rec.Code != tc.status {
			t.Fatalf("%v: status = %d, want %d", tc.err, rec.Code, tc.status)
		}
		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Error.Code != tc.code {
			t.Fatalf("%v: code = %q, want %q", tc.err, body.Error.Code, tc.code)
		}
	}
}

func TestParseOptionalTime(t *testing.T) {
	if at, err := parseOptionalTime("", false); err != nil || at != nil {
		t.Fatalf("empty value: %v %v", at, err)
	}

	at, err := parseOptionalTime("2026-03-18T09:30:00Z", false)
	if err != nil || at == nil {
		t.Fatalf("rfc3339: %v", err)
	}
	if !at.Equal(time.Date(2026, time.March, 18, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("parsed = %v", at)
	}

	at, err = parseOptionalTime("2026-03-18", true)
	if err != nil || at == nil {
		t.Fatalf("date: %v", err)
	}
	want := time.Date(2026, time.March, 18, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	if !at.Equal(want) {
		t.Fatalf("end of day = %v, want %v", at, want)
	}

	if _, err := parseOptionalTime("18/03/2026", false); err == nil {
		t.Fatalf("unsupported layout must fail")
	}
}
