package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"buildquote/internal/domain/actor"
	"buildquote/internal/handler/api"
	"buildquote/internal/handler/middleware"
	"buildquote/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	rfqHandler *api.RfqHandler,
	quoteHandler *api.QuoteHandler,
	notificationHandler *api.NotificationHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, rfqHandler, quoteHandler, notificationHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLogger(cfg.Log).LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	rfqHandler *api.RfqHandler,
	quoteHandler *api.QuoteHandler,
	notificationHandler *api.NotificationHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		rfqs := apiGroup.Group("/rfqs")
		rfqs.Use(authMiddleware.RequireAuth())
		{
			builderOnly := authMiddleware.RequireRole(actor.RoleBuilder)
			supplierOnly := authMiddleware.RequireRole(actor.RoleSupplier)

			addRoutes(rfqs, []route{
				{Method: http.MethodGet, Path: "", Handler: rfqHandler.List},
				{Method: http.MethodGet, Path: "/:id", Handler: rfqHandler.Get},

				{Method: http.MethodPost, Path: "", Handler: rfqHandler.Create, Mw: []gin.HandlerFunc{builderOnly}},
				{Method: http.MethodGet, Path: "/:id/quotes", Handler: rfqHandler.ListQuotes, Mw: []gin.HandlerFunc{builderOnly}},
				{Method: http.MethodPost, Path: "/:id/quotes/:quoteId/accept", Handler: rfqHandler.AcceptQuote, Mw: []gin.HandlerFunc{builderOnly}},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: rfqHandler.Cancel, Mw: []gin.HandlerFunc{builderOnly}},
				{Method: http.MethodPost, Path: "/:id/confirm-order", Handler: rfqHandler.ConfirmOrder, Mw: []gin.HandlerFunc{builderOnly}},
				{Method: http.MethodPost, Path: "/:id/delivered", Handler: rfqHandler.MarkDelivered, Mw: []gin.HandlerFunc{builderOnly}},

				{Method: http.MethodPost, Path: "/:id/quotes", Handler: quoteHandler.Submit, Mw: []gin.HandlerFunc{supplierOnly}},
				{Method: http.MethodGet, Path: "/:id/quotes/mine", Handler: quoteHandler.GetOwn, Mw: []gin.HandlerFunc{supplierOnly}},
				{Method: http.MethodPost, Path: "/:id/viewed", Handler: quoteHandler.MarkViewed, Mw: []gin.HandlerFunc{supplierOnly}},
				{Method: http.MethodPost, Path: "/:id/decline", Handler: quoteHandler.Decline, Mw: []gin.HandlerFunc{supplierOnly}},
			})
		}

		notifications := apiGroup.Group("/notifications")
		notifications.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(actor.RoleAdmin))
		{
			addRoutes(notifications, []route{
				{Method: http.MethodGet, Path: "/delivery-log", Handler: notificationHandler.DeliveryLog},
			})
		}
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
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
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
