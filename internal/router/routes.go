package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/octobees/contacts-hub/internal/auth"
	"github.com/octobees/contacts-hub/internal/config"
	"github.com/octobees/contacts-hub/internal/handler"
	middlewarepkg "github.com/octobees/contacts-hub/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Contacts *handler.ContactsHandler
	Import   *handler.ImportHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	contacts := e.Group("/contacts", middlewarepkg.JWT(jwtManager))
	contacts.GET("/fields", handlers.Contacts.Fields)
	contacts.GET("", handlers.Contacts.List)
	contacts.POST("", handlers.Contacts.Create)
	contacts.GET("/:id", handlers.Contacts.Get)
	contacts.PUT("/:id", handlers.Contacts.Update)
	contacts.DELETE("/:id", handlers.Contacts.Delete)

	limited := middlewarepkg.RateLimiter(cfg.RateLimitImport)
	contacts.POST("/import", handlers.Import.Import, limited)
	contacts.POST("/import/upload", handlers.Import.Upload, limited)
}
