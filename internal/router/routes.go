package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/octobees/leads-manager/internal/config"
	"github.com/octobees/leads-manager/internal/handler"
	middlewarepkg "github.com/octobees/leads-manager/internal/middleware"
	"github.com/octobees/leads-manager/internal/validation"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Leads  *handler.LeadsHandler
	Import *handler.ImportHandler
}

// New builds an echo instance with the shared middleware stack and all routes.
func New(cfg *config.Config, logger logrus.FieldLogger, handlers Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.Echo(validation.Default())

	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging(logger))
	e.Use(echoMiddleware.Recover())
	if len(cfg.HTTP.CORSOrigins) > 0 {
		e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSOrigins,
			AllowCredentials: true,
			ExposeHeaders:    []string{middlewarepkg.HeaderRequestID},
		}))
	}

	Register(e, cfg, handlers)
	return e
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, map[string]string{
			"message": "Welcome to " + cfg.App.Name,
			"version": cfg.App.Version,
		})
	})
	e.GET("/health", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, map[string]string{"status": "healthy"})
	})

	leads := e.Group("/api/leads")
	leads.GET("", handlers.Leads.List)
	leads.POST("", handlers.Leads.Create)
	if handlers.Import != nil {
		leads.POST("/import", handlers.Import.UploadCSV)
	}
	leads.GET("/:id", handlers.Leads.Get)
	leads.PUT("/:id", handlers.Leads.Update)
	leads.DELETE("/:id", handlers.Leads.Delete)
	leads.POST("/:id/enrich", handlers.Leads.Enrich, middlewarepkg.EnrichRateLimiter(cfg.HTTP.RateLimitEnrich))
}
