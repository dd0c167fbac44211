package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"kilnbook/internal/domain/member"
	"kilnbook/internal/handler/api"
	"kilnbook/internal/handler/middleware"
	"kilnbook/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Calendar   *api.CalendarHandler
	Resource   *api.ResourceHandler
	Tariff     *api.TariffHandler
	Report     *api.ReportHandler
	Settlement *api.SettlementHandler
	Metrics    http.Handler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)
	if h.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(h.Metrics))
	}

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		kilns := apiGroup.Group("/kilns")
		addRoutes(kilns, []route{
			{Method: http.MethodGet, Path: "", Handler: h.Resource.List},
			{Method: http.MethodPost, Path: "", Handler: h.Resource.Create},
			{Method: http.MethodPut, Path: "/:id/rate", Handler: h.Resource.ChangeRate},
			{Method: http.MethodGet, Path: "/:id/months/:year/:month", Handler: h.Calendar.ShowMonth},
		})

		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/reservations", Handler: h.Calendar.Mutate},
			{Method: http.MethodGet, Path: "/me/usage", Handler: h.Report.MyUsage},
			{Method: http.MethodGet, Path: "/me/balance", Handler: h.Report.MyBalance},
		})

		tariffs := apiGroup.Group("/tariffs")
		addRoutes(tariffs, []route{
			{Method: http.MethodGet, Path: "", Handler: h.Tariff.List},
			{Method: http.MethodPut, Path: "", Handler: h.Tariff.Set},
			{Method: http.MethodDelete, Path: "/:member/:kiln", Handler: h.Tariff.Remove},
		})

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireCapability(member.CapabilityOverride))
		addRoutes(admin, []route{
			{Method: http.MethodGet, Path: "/balances", Handler: h.Report.Balances},
			{Method: http.MethodGet, Path: "/audit", Handler: h.Report.Audit},
			{Method: http.MethodPost, Path: "/settlement/run", Handler: h.Settlement.RunNow},
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
