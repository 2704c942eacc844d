// Package httpapi wires the Gin engine to the middleware stack and the
// handlers.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-congress-backend/internal/config"
	"github.com/tbourn/go-congress-backend/internal/http/handlers"
	"github.com/tbourn/go-congress-backend/internal/http/middleware"
	"github.com/tbourn/go-congress-backend/internal/repo"
)

const (
	maxBodyBytes = 1 << 20
	// assistantRPS throttles prompt submissions harder than reads.
	assistantRPS   = 0.5
	assistantBurst = 3
)

var (
	corsMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", "If-None-Match", middleware.HeaderIdempotencyKey}
	corsExpose  = []string{"X-Request-ID", "ETag", "Idempotency-Replayed", "Retry-After", "Content-Length"}
)

// RegisterRoutes installs middleware and mounts the API under
// cfg.APIBasePath. db backs the idempotency lookup and may be nil.
//
// Middleware order:
//  1. otelgin
//  2. RequestID
//  3. AccessLog
//  4. Recovery
//  5. body limit, gzip, metrics
//  6. idempotency (before rate limiting so replays bypass it)
//  7. rate limit, CORS, security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, d handlers.Deps) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(middleware.RedactOptions{
		MaskHeaders: []string{"X-Api-Key"},
		MaskParams:  []string{"api_key"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, idempotencyLookup(db)))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	useCORS(r, cfg.CORS.AllowedOrigins)

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:      cfg.Security.EnableHSTS,
		HSTSMaxAge:      cfg.Security.HSTSMaxAge,
		EnablePolicy:    true,
		PublicMaxAge:    time.Minute,
		PrivatePrefixes: []string{"/agent/"},
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(d)
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.GET("/members", h.SearchMembers)
		api.GET("/members/states", h.MemberStates)
		api.GET("/members/stats", h.MemberStats)
		api.GET("/members/:id", h.GetMember)
		api.GET("/members/:id/bills", h.MemberBills)
		api.GET("/members/:id/votes", h.MemberVotes)

		api.GET("/bills", h.SearchBills)
		api.GET("/bills/:id", h.GetBill)
		api.GET("/bills/:id/actions", h.BillActions)

		api.GET("/votes", h.SearchVotes)
		api.GET("/votes/recent", h.RecentVotes)
		api.GET("/votes/:id", h.GetVote)
	}

	agent := api.Group("/agent")
	{
		agent.POST("/conversations", h.CreateConversation)
		agent.GET("/conversations", h.ListConversations)
		agent.PUT("/conversations/:id/title", h.UpdateConversationTitle)
		agent.GET("/conversations/:id/messages", h.ListMessages)
		agent.POST("/conversations/:id/messages",
			middleware.NewRateLimiter(assistantRPS, assistantBurst, middleware.KeyByUserOrIP()).Handler(),
			h.PostMessage)
		agent.POST("/messages/:id/feedback", h.LeaveFeedback)
	}
}

func idempotencyLookup(db *gorm.DB) middleware.IdempotencyLookup {
	if db == nil {
		return nil
	}
	return func(ctx context.Context, userID, conversationID, key string, now time.Time) (bool, error) {
		rec, err := repo.GetIdempotency(ctx, db, userID, conversationID, key, now)
		if err != nil || rec == nil {
			return false, nil
		}
		return true, nil
	}
}

// useCORS allows every origin when none are configured. Otherwise the
// request Origin is echoed only when allowlisted.
func useCORS(r *gin.Engine, origins []string) {
	if len(origins) == 0 {
		// ACAO is forced even without an Origin header so health checks and
		// non-browser clients see a consistent posture.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    corsMethods,
			AllowHeaders:    corsHeaders,
			ExposeHeaders:   corsExpose,
			MaxAge:          12 * time.Hour,
		}))
		return
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	r.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
		}
		c.Next()
	})
	r.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  corsMethods,
		AllowHeaders:  corsHeaders,
		ExposeHeaders: corsExpose,
		MaxAge:        12 * time.Hour,
	}))
}

// limitBody caps request bodies; oversized reads fail in the handler.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix treats "" and "/" as the root group.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
