package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"printshop-backend/internal/handler"
	"printshop-backend/internal/middleware"
	"printshop-backend/internal/service"
)

type Server struct {
	echo            *echo.Echo
	jwtSecret       string
	checkoutHandler *handler.CheckoutHandler
	webhookHandler  *handler.WebhookHandler
	shopHandler     *handler.ShopHandler
	authHandler     *handler.AuthHandler
}

func NewServer(
	checkoutService service.CheckoutService,
	webhookService service.WebhookService,
	shopService service.ShopService,
	jwtSecret string,
) *Server {
	e := echo.New()

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:            e,
		jwtSecret:       jwtSecret,
		checkoutHandler: handler.NewCheckoutHandler(checkoutService),
		webhookHandler:  handler.NewWebhookHandler(webhookService),
		shopHandler:     handler.NewShopHandler(shopService),
		authHandler:     handler.NewAuthHandler(jwtSecret),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.POST("/auth/token", s.authHandler.IssueToken)

	// -------- storefront (public reads) --------
	api.GET("/shop/items", s.shopHandler.ListItems)
	api.GET("/shop/items/:id", s.shopHandler.GetItem)

	// -------- buyer operations --------
	authed := api.Group("", middleware.Auth(s.jwtSecret))
	authed.POST("/checkout", s.checkoutHandler.CreateSession)
	authed.GET("/orders", s.shopHandler.ListMyOrders)

	// -------- payment-provider callbacks --------
	api.POST("/payments/webhook", s.webhookHandler.HandleStripeWebhook)
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
