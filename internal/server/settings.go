package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	settingsdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payoutsettings/domain"
	"github.com/shopspring/decimal"
)

// @Summary      Get Payout Settings
// @Description  Seller payout settings, created with defaults on first read
// @Tags         payout-settings
// @Produce      json
// @Router       /payout-settings [get]
func (s *Server) GetPayoutSettings(c *gin.Context) {
	sellerID, err := s.sellerIDFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	settings, err := s.settingsSvc.Get(c.Request.Context(), sellerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": settings})
}

type updateSettingsRequest struct {
	Schedule          *string `json:"schedule"`
	PayoutDay         *int    `json:"payout_day"`
	MinPayoutAmount   *string `json:"min_payout_amount"`
	HoldEnabled       *bool   `json:"hold_enabled"`
	HoldDays          *int    `json:"hold_days"`
	AutoPayoutEnabled *bool   `json:"auto_payout_enabled"`
}

// @Summary      Update Payout Settings
// @Description  Partially update the seller's payout settings
// @Tags         payout-settings
// @Accept       json
// @Produce      json
// @Router       /payout-settings [patch]
func (s *Server) UpdatePayoutSettings(c *gin.Context) {
	sellerID, err := s.sellerIDFromRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	patch := settingsdomain.UpdateRequest{
		PayoutDay:         req.PayoutDay,
		HoldEnabled:       req.HoldEnabled,
		HoldDays:          req.HoldDays,
		AutoPayoutEnabled: req.AutoPayoutEnabled,
	}
	if req.Schedule != nil {
		schedule := settingsdomain.Schedule(strings.TrimSpace(*req.Schedule))
		patch.Schedule = &schedule
	}
	if req.MinPayoutAmount != nil {
		amount, err := decimal.NewFromString(strings.TrimSpace(*req.MinPayoutAmount))
		if err != nil {
			AbortWithError(c, newValidationError("min_payout_amount", "invalid_min_payout_amount", "invalid min_payout_amount"))
			return
		}
		patch.MinPayoutAmount = &amount
	}

	settings, err := s.settingsSvc.Update(c.Request.Context(), sellerID, patch, nil)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": settings})
}
