// Package http provides the HTTP server of the session.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/service"
	v1 "github.com/RaviNarasimha41/industrial-safety-Q-A/internal/transport/http/v1"
	"github.com/RaviNarasimha41/industrial-safety-Q-A/internal/transport/ws"
)

// NewServer creates the HTTP server: the v1 API, health, metrics and the
// WebSocket endpoint for live viewers.
func NewServer(svc *service.Service, wsServer *ws.Server) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc)

	// Register Routes
	v1Handler.RegisterRoutes(e)
	e.GET("/ws", wsServer.HandleWebSocket)

	return e
}
