package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"campus-market/internal/domain/user"
	"campus-market/internal/handler/api"
	"campus-market/internal/handler/middleware"
	"campus-market/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type RouterParams struct {
	fx.In

	Engine         *gin.Engine
	Config         config.Config
	Logger         *middleware.Logger
	AuthMiddleware *middleware.AuthMiddleware
	Matches        *api.MatchHandler
	Errands        *api.ErrandHandler
	Refunds        *api.RefundHandler
	Wallet         *api.WalletHandler
	Payments       *api.PaymentHandler
}

func NewRouter(p RouterParams) {
	setupMiddleware(p.Engine, p.Config, p.Logger)
	setupRoutes(p)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	log := logger.GetSlogLogger()
	engine.Use(middleware.CustomRecovery(log))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS, log))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler(log))
}

func setupRoutes(p RouterParams) {
	engine := p.Engine
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	runnerOnly := p.AuthMiddleware.RequireRoleAtLeast(user.RoleRunner)
	adminOnly := p.AuthMiddleware.RequireRoleAtLeast(user.RoleAdmin)

	apiGroup := engine.Group("/api")
	{
		payments := apiGroup.Group("/payments")
		payments.Use(middleware.RequirePaymentSecret(p.Config.Payment.WebhookSecret))
		addRoutes(payments, []route{
			{Method: http.MethodPost, Path: "/callback", Handler: p.Payments.Callback},
		})

		authed := apiGroup.Group("")
		authed.Use(p.AuthMiddleware.RequireAuth())

		matches := authed.Group("/matches")
		{
			addRoutes(matches, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: p.Matches.Get},
				{Method: http.MethodPost, Path: "/:id/accept", Handler: p.Matches.Accept},
				{Method: http.MethodPost, Path: "/:id/reject", Handler: p.Matches.Reject},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: p.Matches.Cancel},
				{Method: http.MethodPost, Path: "/:id/confirm-order", Handler: p.Matches.ConfirmOrder},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: p.Matches.Complete},
				{Method: http.MethodPost, Path: "/:id/coupon", Handler: p.Matches.ApplyCoupon},
			})
		}

		addRoutes(authed.Group("/resources"), []route{
			{Method: http.MethodPost, Path: "/:id/claim", Handler: p.Errands.Claim, Mw: []gin.HandlerFunc{runnerOnly}},
		})

		errands := authed.Group("/errands")
		{
			addRoutes(errands, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: p.Errands.Get},
				{Method: http.MethodPost, Path: "/:id/pickup", Handler: p.Errands.Pickup, Mw: []gin.HandlerFunc{runnerOnly}},
				{Method: http.MethodPost, Path: "/:id/dropoff", Handler: p.Errands.Dropoff, Mw: []gin.HandlerFunc{runnerOnly}},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: p.Errands.Complete, Mw: []gin.HandlerFunc{runnerOnly}},
				{Method: http.MethodPost, Path: "/:id/coupon", Handler: p.Errands.ApplyCoupon},
			})
		}

		refunds := authed.Group("/refunds")
		{
			addRoutes(refunds, []route{
				{Method: http.MethodPost, Path: "", Handler: p.Refunds.Create},
				{Method: http.MethodGet, Path: "/quote", Handler: p.Refunds.Quote},
				{Method: http.MethodGet, Path: "/:id", Handler: p.Refunds.Get},
				{Method: http.MethodPost, Path: "/:id/dispute", Handler: p.Refunds.Dispute},
				{Method: http.MethodPost, Path: "/:id/approve", Handler: p.Refunds.Approve, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "/:id/reject", Handler: p.Refunds.Reject, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "/:id/process", Handler: p.Refunds.Process, Mw: []gin.HandlerFunc{adminOnly}},
			})
		}

		addRoutes(authed.Group("/wallet"), []route{
			{Method: http.MethodGet, Path: "", Handler: p.Wallet.Get},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
