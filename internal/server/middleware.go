package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/observability/context"
)

const (
	headerRequestID = "X-Request-Id"
	headerSellerID  = "X-Seller-Id"
	headerAdminID   = "X-Admin-Id"
)

// RequestContext stamps every request with an ID and lifts the identity
// headers (set by the edge gateway after authentication) into the request
// context for logging and downstream attribution.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(headerRequestID, requestID)

		ctx := obscontext.WithRequestID(c.Request.Context(), requestID)
		if sellerID := strings.TrimSpace(c.GetHeader(headerSellerID)); sellerID != "" {
			c.Set("seller_id", sellerID)
			ctx = obscontext.WithSellerID(ctx, sellerID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// sellerIDFromRequest resolves the authenticated seller for seller-scoped
// routes.
func (s *Server) sellerIDFromRequest(c *gin.Context) (snowflake.ID, error) {
	raw := obscontext.SellerIDFromGin(c)
	if raw == "" {
		return 0, ErrUnauthorized
	}
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return 0, ErrUnauthorized
	}
	return id, nil
}

// adminIDFromRequest resolves the authenticated admin for admin routes.
func (s *Server) adminIDFromRequest(c *gin.Context) (snowflake.ID, error) {
	raw := strings.TrimSpace(c.GetHeader(headerAdminID))
	if raw == "" {
		return 0, ErrUnauthorized
	}
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		return 0, ErrUnauthorized
	}
	return id, nil
}
