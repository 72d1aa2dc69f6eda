package server

import (
	"net/http"

	"qrstore/internal/config"
	"qrstore/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Shipment *handler.ShipmentHandler
}

func New(cfg config.Config, hs Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	// フロントは別オリジンで動く
	origins := []string{"http://localhost:3000"}
	if cfg.FEURL != "" {
		origins = append(origins, cfg.FEURL)
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	hs.Auth.RegisterRoutes(e, cfg)
	hs.Product.RegisterRoutes(e, cfg)
	hs.Category.RegisterRoutes(e, cfg)
	hs.Cart.RegisterRoutes(e, cfg)
	hs.Order.RegisterRoutes(e, cfg)
	hs.Shipment.RegisterRoutes(e, cfg)

	return e
}

func Start(e *echo.Echo, cfg config.Config) error {
	return e.Start(":" + cfg.Port)
}
