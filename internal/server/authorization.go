package server

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// authorizeAdminAction resolves the admin actor and checks the capability
// before any money-moving operation runs.
func (s *Server) authorizeAdminAction(c *gin.Context, object string, action string) (snowflake.ID, error) {
	if s.authzSvc == nil {
		return 0, ErrForbidden
	}
	adminID, err := s.adminIDFromRequest(c)
	if err != nil {
		return 0, err
	}
	actor := fmt.Sprintf("admin:%s", adminID.String())
	if err := s.authzSvc.Authorize(c.Request.Context(), actor, object, action); err != nil {
		return 0, err
	}
	return adminID, nil
}
