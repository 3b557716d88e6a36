package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/docsewa/marketplace-api/docs"
	"github.com/docsewa/marketplace-api/internal/api/handler"
	"github.com/docsewa/marketplace-api/internal/api/middleware"
	"github.com/docsewa/marketplace-api/internal/core/domain"
	"github.com/docsewa/marketplace-api/internal/core/ports"
)

// Services groups the use-case implementations the router wires to handlers.
type Services struct {
	Auth    ports.AuthService
	Catalog ports.CatalogService
	Orders  ports.OrderService
	Payment ports.PaymentService
	Voucher ports.VoucherService
	Admin   ports.AdminService
}

// RouterConfig carries the non-service knobs.
type RouterConfig struct {
	SecureCookies bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svcs Services, db *mongo.Database, rdb *redis.Client, cfg RouterConfig, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svcs.Auth, cfg.SecureCookies)
	catalogHandler := handler.NewCatalogHandler(svcs.Catalog)
	orderHandler := handler.NewOrderHandler(svcs.Orders)
	paymentHandler := handler.NewPaymentHandler(svcs.Payment)
	voucherHandler := handler.NewVoucherHandler(svcs.Voucher)
	adminHandler := handler.NewAdminHandler(svcs.Admin)
	healthHandler := handler.NewHealthHandler(db, rdb)

	session := middleware.Session(svcs.Auth)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Probes, metrics, docs (no auth required) ---
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness)     // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	v1 := e.Group("/v1")

	// --- Auth ---
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/partner-signup", authHandler.PartnerSignup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, session)
	auth.GET("/me", authHandler.Me, session)

	// --- Catalog (public reads) ---
	v1.GET("/services", catalogHandler.List)
	v1.GET("/services/:id", catalogHandler.Get)

	// --- Vouchers (public validation) ---
	v1.POST("/vouchers/validate", voucherHandler.Validate)

	// --- Orders ---
	orders := v1.Group("/orders", session)
	orders.POST("", orderHandler.Create, middleware.RBAC(domain.RoleRequester))
	orders.GET("", orderHandler.List)
	orders.GET("/status", orderHandler.StatusFeed)
	orders.GET("/:id", orderHandler.Get)
	orders.PATCH("/:id", orderHandler.Update)
	orders.POST("/:id/accept", orderHandler.Accept, middleware.RBAC(domain.RolePartner))
	orders.POST("/:id/assign", orderHandler.Assign, adminOnly)

	// --- Payments ---
	payments := v1.Group("/payments", session)
	payments.POST("/intent", paymentHandler.CreateIntent)
	payments.POST("/verify", paymentHandler.Verify)

	// --- Admin ---
	admin := v1.Group("/admin", session, adminOnly)
	admin.GET("/orders", orderHandler.List)
	admin.GET("/partners", adminHandler.ListPartners)
	admin.PATCH("/partners/:id/verify", adminHandler.VerifyPartner)
	admin.GET("/stats", adminHandler.Stats)
	admin.POST("/services", catalogHandler.Create)
	admin.PATCH("/services/:id", catalogHandler.SetActive)
	admin.GET("/vouchers", voucherHandler.List)
	admin.POST("/vouchers", voucherHandler.Create)
	admin.PATCH("/vouchers/:id", voucherHandler.SetActive)
	admin.DELETE("/vouchers/:id", voucherHandler.Delete)

	return e
}
