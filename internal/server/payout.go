package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/authorization"
	payoutdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/domain"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/pkg/db/pagination"
	"go.uber.org/zap"
)

// @Summary      List Payouts
// @Description  List the authenticated seller's payouts
// @Tags         payouts
// @Produce      json
// @Param        status      query  string  false  "Status filter"
// @Param        from        query  string  false  "Created from"
// @Param        to          query  string  false  "Created to"
// @Param        page_token  query  string  false  "Page Token"
// @Param        page_size   query  int     false  "Page Size"
// @Router       /payouts [get]
func (s *Server) ListPayouts(c *gin.Context) {
	sellerID, err := s.sellerIDFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var query struct {
		pagination.Pagination
		Status string `form:"status"`
		From   string `form:"from"`
		To     string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseOptionalTime(query.From, false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}
	to, err := parseOptionalTime(query.To, true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}

	resp, err := s.payoutSvc.List(c.Request.Context(), payoutdomain.ListRequest{
		SellerID:  sellerID,
		Status:    payoutdomain.Status(strings.TrimSpace(query.Status)),
		From:      from,
		To:        to,
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Payout
// @Description  Payout detail with line items and event history
// @Tags         payouts
// @Produce      json
// @Param        id  path  string  true  "Payout ID"
// @Router       /payouts/{id} [get]
func (s *Server) GetPayout(c *gin.Context) {
	sellerID, err := s.sellerIDFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	payoutID, err := snowflake.ParseString(c.Param("id"))
	if err != nil || payoutID == 0 {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid payout id"))
		return
	}

	detail, err := s.payoutSvc.GetByID(c.Request.Context(), payoutID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if detail == nil || detail.Payout.SellerID != sellerID {
		AbortWithError(c, ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": detail})
}

// @Summary      Payout Eligibility
// @Description  Current eligibility verdict with bank state and next run
// @Tags         payouts
// @Produce      json
// @Router       /payouts/eligibility [get]
func (s *Server) PayoutEligibility(c *gin.Context) {
	sellerID, err := s.sellerIDFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	resp, err := s.payoutSvc.EnhancedEligibility(c.Request.Context(), sellerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Payout Stats
// @Description  Totals and counts grouped by payout status
// @Tags         payouts
// @Produce      json
// @Router       /payouts/stats [get]
func (s *Server) PayoutStats(c *gin.Context) {
	sellerID, err := s.sellerIDFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	resp, err := s.payoutSvc.Stats(c.Request.Context(), sellerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Funds Timeline
// @Description  Per-invoice funds lifecycle view
// @Tags         payouts
// @Produce      json
// @Param        limit  query  int  false  "Max invoices"
// @Router       /payouts/timeline [get]
func (s *Server) PayoutTimeline(c *gin.Context) {
	sellerID, err := s.sellerIDFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var query struct {
		Limit int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	resp, err := s.payoutSvc.Timeline(c.Request.Context(), sellerID, query.Limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createPayoutRequest struct {
	SellerID    string `json:"seller_id"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

// @Summary      Create Payout
// @Description  Create a payout for one seller over a period (admin)
// @Tags         admin-payouts
// @Accept       json
// @Produce      json
// @Router       /admin/payouts [post]
func (s *Server) CreatePayout(c *gin.Context) {
	adminID, err := s.authorizeAdminAction(c, authorization.ObjectPayout, authorization.ActionPayoutCreate)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req createPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	sellerID, err := snowflake.ParseString(strings.TrimSpace(req.SellerID))
	if err != nil || sellerID == 0 {
		AbortWithError(c, newValidationError("seller_id", "invalid_seller_id", "invalid seller_id"))
		return
	}
	periodStart, err := time.Parse(time.RFC3339, req.PeriodStart)
	if err != nil {
		AbortWithError(c, newValidationError("period_start", "invalid_period_start", "invalid period_start"))
		return
	}
	periodEnd, err := time.Parse(time.RFC3339, req.PeriodEnd)
	if err != nil {
		AbortWithError(c, newValidationError("period_end", "invalid_period_end", "invalid period_end"))
		return
	}

	result, err := s.payoutSvc.Create(c.Request.Context(), payoutdomain.CreateRequest{
		SellerID:    sellerID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		ActorID:     &adminID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.auditAdminAction(c, adminID, "payout.create", sellerID, result)
	c.JSON(http.StatusOK, gin.H{"data": result})
}

type runBatchRequest struct {
	PayoutDate string `json:"payout_date"`
}

// @Summary      Run Payout Batch
// @Description  Run batch payout creation across all sellers (admin)
// @Tags         admin-payouts
// @Accept       json
// @Produce      json
// @Router       /admin/payouts/batch [post]
func (s *Server) RunPayoutBatch(c *gin.Context) {
	adminID, err := s.authorizeAdminAction(c, authorization.ObjectPayout, authorization.ActionPayoutBatchRun)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req runBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		AbortWithError(c, invalidRequestError())
		return
	}
	payoutDate := time.Now().UTC()
	if strings.TrimSpace(req.PayoutDate) != "" {
		payoutDate, err = time.Parse(time.RFC3339, req.PayoutDate)
		if err != nil {
			AbortWithError(c, newValidationError("payout_date", "invalid_payout_date", "invalid payout_date"))
			return
		}
	}

	result, err := s.payoutSvc.CreateBatch(c.Request.Context(), payoutDate)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if s.auditSvc != nil {
		actorID := adminID.String()
		err := s.auditSvc.AuditLog(c.Request.Context(), nil, "admin", &actorID, "payout.batch_run", "payout_batch", nil, map[string]any{
			"created": result.Created,
			"skipped": result.Skipped,
			"errors":  len(result.Errors),
		})
		if err != nil {
			s.log.Warn("audit log write failed",
				zap.String("action", "payout.batch_run"),
				zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

type lifecycleRequest struct {
	Reason        string `json:"reason"`
	BankReference string `json:"bank_reference"`
	HoldUntil     string `json:"hold_until"`
}

// @Summary      Approve Payout
// @Tags         admin-payouts
// @Produce      json
// @Param        id  path  string  true  "Payout ID"
// @Router       /admin/payouts/{id}/approve [post]
func (s *Server) ApprovePayout(c *gin.Context) {
	s.lifecycleOp(c, authorization.ActionPayoutApprove, "payout.approve",
		func(c *gin.Context, payoutID, adminID snowflake.ID, _ lifecycleRequest) (payoutdomain.OperationResult, error) {
			return s.payoutSvc.Approve(c.Request.Context(), payoutID, adminID)
		})
}

// @Summary      Process Payout
// @Tags         admin-payouts
// @Produce      json
// @Param        id  path  string  true  "Payout ID"
// @Router       /admin/payouts/{id}/process [post]
func (s *Server) ProcessPayout(c *gin.Context) {
	s.lifecycleOp(c, authorization.ActionPayoutProcess, "payout.process",
		func(c *gin.Context, payoutID, adminID snowflake.ID, _ lifecycleRequest) (payoutdomain.OperationResult, error) {
			return s.payoutSvc.Process(c.Request.Context(), payoutID, adminID)
		})
}

// @Summary      Settle Payout
// @Tags         admin-payouts
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Payout ID"
// @Router       /admin/payouts/{id}/settle [post]
func (s *Server) SettlePayout(c *gin.Context) {
	s.lifecycleOp(c, authorization.ActionPayoutSettle, "payout.settle",
		func(c *gin.Context, payoutID, adminID snowflake.ID, req lifecycleRequest) (payoutdomain.OperationResult, error) {
			return s.payoutSvc.Settle(c.Request.Context(), payoutID, strings.TrimSpace(req.BankReference), &adminID)
		})
}

// @Summary      Fail Payout
// @Tags         admin-payouts
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Payout ID"
// @Router       /admin/payouts/{id}/fail [post]
func (s *Server) FailPayout(c *gin.Context) {
	s.lifecycleOp(c, authorization.ActionPayoutFail, "payout.fail",
		func(c *gin.Context, payoutID, adminID snowflake.ID, req lifecycleRequest) (payoutdomain.OperationResult, error) {
			return s.payoutSvc.Fail(c.Request.Context(), payoutID, strings.TrimSpace(req.Reason), &adminID)
		})
}

// @Summary      Hold Payout
// @Tags         admin-payouts
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Payout ID"
// @Router       /admin/payouts/{id}/hold [post]
func (s *Server) HoldPayout(c *gin.Context) {
	s.lifecycleOp(c, authorization.ActionPayoutHold, "payout.hold",
		func(c *gin.Context, payoutID, adminID snowflake.ID, req lifecycleRequest) (payoutdomain.OperationResult, error) {
			var holdUntil *time.Time
			if value := strings.TrimSpace(req.HoldUntil); value != "" {
				at, err := time.Parse(time.RFC3339, value)
				if err != nil {
					return payoutdomain.OperationResult{}, newValidationError("hold_until", "invalid_hold_until", "invalid hold_until")
				}
				holdUntil = &at
			}
			return s.payoutSvc.Hold(c.Request.Context(), payoutID, strings.TrimSpace(req.Reason), holdUntil, &adminID)
		})
}

func (s *Server) lifecycleOp(
	c *gin.Context,
	action string,
	auditAction string,
	run func(*gin.Context, snowflake.ID, snowflake.ID, lifecycleRequest) (payoutdomain.OperationResult, error),
) {
	adminID, err := s.authorizeAdminAction(c, authorization.ObjectPayout, action)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	payoutID, err := snowflake.ParseString(c.Param("id"))
	if err != nil || payoutID == 0 {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid payout id"))
		return
	}

	var req lifecycleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	result, err := run(c, payoutID, adminID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if result.Success && result.Payout != nil {
		s.auditAdminAction(c, adminID, auditAction, result.Payout.SellerID, result)
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) auditAdminAction(c *gin.Context, adminID snowflake.ID, action string, sellerID snowflake.ID, result payoutdomain.OperationResult) {
	if s.auditSvc == nil {
		return
	}
	actorID := adminID.String()
	metadata := map[string]any{"success": result.Success}
	var targetID *string
	if result.Payout != nil {
		id := result.Payout.ID.String()
		targetID = &id
		metadata["payout_number"] = result.Payout.PayoutNumber
		metadata["status"] = string(result.Payout.Status)
	}
	if result.Error != "" {
		metadata["error"] = result.Error
	}
	if err := s.auditSvc.AuditLog(c.Request.Context(), &sellerID, "admin", &actorID, action, "payout", targetID, metadata); err != nil {
		s.log.Warn("audit log write failed",
			zap.String("action", action),
			zap.String("seller_id", sellerID.String()),
			zap.Error(err))
	}
}
