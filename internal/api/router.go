package api

import (
	"context"
	"net/http"
	"time"

	"digital_wallet/internal/middleware"

	"github.com/gin-gonic/gin"
)

// HealthCheck checks one dependency.
type HealthCheck func(ctx context.Context) error

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Auth           AuthService
	Wallet         WalletService
	Tokens         middleware.TokenParser
	Revocations    middleware.RevocationChecker // optional
	Observer       middleware.HTTPObserver      // optional
	MetricsHandler http.Handler                 // optional, served at /metrics
	HealthChecks   map[string]HealthCheck
	RequestTimeout time.Duration
	TrustedProxies []string
}

// NewRouter builds the gin engine. Every API route is served both at the root and under /api.
func NewRouter(d Deps) (*gin.Engine, error) {
	RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Observer))
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, err
	}

	r.GET("/health", HealthHandler(d.HealthChecks))
	if d.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(d.MetricsHandler))
	}

	for _, prefix := range []string{"", "/api"} {
		mountRoutes(r.Group(prefix, middleware.RequestTimeout(d.RequestTimeout)), d)
	}
	return r, nil
}

func mountRoutes(g *gin.RouterGroup, d Deps) {
	authenticated := middleware.JWTAuthMiddleware(d.Tokens, d.Revocations)

	// Auth routes
	g.POST("/register", RegisterHandler(d.Auth))
	g.POST("/login", LoginHandler(d.Auth))
	g.POST("/logout", authenticated, LogoutHandler(d.Auth))

	// Wallet routes (protected by JWT)
	walletGroup := g.Group("/wallet", authenticated)
	walletGroup.POST("/balance", BalanceHandler(d.Wallet))
	walletGroup.GET("/transactions", TransactionHistoryHandler(d.Wallet))
	walletGroup.POST("/deposit", DepositHandler(d.Wallet))
	walletGroup.POST("/transfer", TransferHandler(d.Wallet))
	walletGroup.POST("/change-pin", ChangePinHandler(d.Wallet))
}

// HealthHandler reports 200 when every check passes, 503 otherwise
func HealthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := gin.H{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}
		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		c.JSON(status, gin.H{"status": overall, "checks": results})
	}
}
