package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"arc-storefront/internal/handler/api"
	"arc-storefront/internal/handler/middleware"
	"arc-storefront/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	logger *middleware.Logger,
	receiptHandler *api.ReceiptHandler,
	storefrontHandler *api.StorefrontHandler,
	sessionMiddleware *middleware.SessionMiddleware,
) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, receiptHandler, storefrontHandler, sessionMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery(logger.GetSlogLogger()))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS, logger.GetSlogLogger()))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, receiptHandler *api.ReceiptHandler, storefrontHandler *api.StorefrontHandler, sessionMiddleware *middleware.SessionMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// receipt clients predate the /api prefix
	engine.POST("/send-receipt", receiptHandler.Send)

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/send-receipt", Handler: receiptHandler.Send},
			{Method: http.MethodGet, Path: "/catalog", Handler: storefrontHandler.Catalog},
		})

		shop := apiGroup.Group("")
		shop.Use(sessionMiddleware.RequireSession())
		{
			addRoutes(shop, []route{
				{Method: http.MethodGet, Path: "/cart", Handler: storefrontHandler.GetCart},
				{Method: http.MethodPost, Path: "/cart/items", Handler: storefrontHandler.AddItem},
				{Method: http.MethodPatch, Path: "/cart/items/:productId", Handler: storefrontHandler.UpdateQuantity},
				{Method: http.MethodDelete, Path: "/cart/items/:productId", Handler: storefrontHandler.RemoveItem},
				{Method: http.MethodPut, Path: "/cart/open", Handler: storefrontHandler.SetCartOpen},
				{Method: http.MethodGet, Path: "/checkout", Handler: storefrontHandler.GetCheckout},
				{Method: http.MethodPost, Path: "/checkout", Handler: storefrontHandler.Submit},
				{Method: http.MethodPost, Path: "/checkout/open", Handler: storefrontHandler.OpenCheckout},
				{Method: http.MethodPost, Path: "/checkout/cancel", Handler: storefrontHandler.CancelCheckout},
				{Method: http.MethodPut, Path: "/checkout/customer", Handler: storefrontHandler.UpdateCustomer},
				{Method: http.MethodPost, Path: "/checkout/test-send", Handler: storefrontHandler.TestSend},
				{Method: http.MethodDelete, Path: "/session", Handler: storefrontHandler.ForgetSession},
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
