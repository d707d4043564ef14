// Package server exposes the payout subsystem over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/audit/domain"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/authorization"
	"github.com/nabdchainsystem-alt/nabdchain-sub010/internal/config"
	payoutdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payout/domain"
	settingsdomain "github.com/nabdchainsystem-alt/nabdchain-sub010/internal/payoutsettings/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(RunHTTP),
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Config      config.Config
	PayoutSvc   payoutdomain.Service
	SettingsSvc settingsdomain.Service
	AuditSvc    auditdomain.Service
	AuthzSvc    authorization.Service
}

type Server struct {
	db  *gorm.DB
	log *zap.Logger
	cfg config.Config

	payoutSvc   payoutdomain.Service
	settingsSvc settingsdomain.Service
	auditSvc    auditdomain.Service
	authzSvc    authorization.Service

	adminLimiter *rateLimiter
}

func NewServer(p Params) *Server {
	return &Server{
		db:  p.DB,
		log: p.Log.Named("server"),
		cfg: p.Config,

		payoutSvc:   p.PayoutSvc,
		settingsSvc: p.SettingsSvc,
		auditSvc:    p.AuditSvc,
		authzSvc:    p.AuthzSvc,

		adminLimiter: newRateLimiter(30, time.Minute),
	}
}

func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestContext())
	return engine
}

func RegisterRoutes(engine *gin.Engine, s *Server) {
	engine.GET("/healthz", s.Healthz)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/v1")

	payouts := api.Group("/payouts")
	payouts.GET("", s.ListPayouts)
	payouts.GET("/eligibility", s.PayoutEligibility)
	payouts.GET("/stats", s.PayoutStats)
	payouts.GET("/timeline", s.PayoutTimeline)
	payouts.GET("/:id", s.GetPayout)

	settings := api.Group("/payout-settings")
	settings.GET("", s.GetPayoutSettings)
	settings.PATCH("", s.UpdatePayoutSettings)

	admin := api.Group("/admin/payouts")
	admin.Use(s.adminRateLimit())
	admin.POST("", s.CreatePayout)
	admin.POST("/batch", s.RunPayoutBatch)
	admin.POST("/:id/approve", s.ApprovePayout)
	admin.POST("/:id/process", s.ProcessPayout)
	admin.POST("/:id/settle", s.SettlePayout)
	admin.POST("/:id/fail", s.FailPayout)
	admin.POST("/:id/hold", s.HoldPayout)
}

func RunHTTP(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func (s *Server) Healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) adminRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(headerAdminID)
		if key == "" {
			key = c.ClientIP()
		}
		if !s.adminLimiter.Allow(key) {
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}
