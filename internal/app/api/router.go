package api

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	adminhttp "github.com/husnhira/storefront/internal/domains/admin/adapters/http"
	ordershttp "github.com/husnhira/storefront/internal/domains/orders/adapters/http"
	otphttp "github.com/husnhira/storefront/internal/domains/otp/adapters/http"
	"github.com/husnhira/storefront/internal/platform/ratelimit"
	apierrors "github.com/husnhira/storefront/internal/shared/errors"
	"github.com/husnhira/storefront/internal/shared/httpx"
)

// Handlers groups the HTTP adapters mounted by NewRouter.
type Handlers struct {
	Orders *ordershttp.OrdersAPI
	Admin  *adminhttp.Handler
	OTP    *otphttp.Handler
}

// NewRouter assembles the gin engine. limiter guards the public write routes
// and the admin login; a nil limiter disables throttling.
func NewRouter(serviceName string, handlers Handlers, limiter *ratelimit.Limiter) (*gin.Engine, error) {
	if err := httpx.RegisterValidators(); err != nil {
		return nil, err
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(serviceName),
		sentrygin.New(sentrygin.Options{Repanic: true}),
	)
	router.NoRoute(func(c *gin.Context) {
		apierrors.Respond(c, apierrors.ErrNotFound.WithMsg("Not found"))
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	throttled := limiter.Middleware()

	public := router.Group("/api", throttled)
	handlers.Orders.RegisterCheckout(public)
	handlers.OTP.Register(public)

	admin := router.Group(adminhttp.BasePath)
	handlers.Admin.Register(admin, throttled)

	guarded := admin.Group("", handlers.Admin.Guard(adminhttp.RedirectToLogin))
	handlers.Orders.RegisterAdmin(guarded, gzip.Gzip(gzip.DefaultCompression))
	return router, nil
}
