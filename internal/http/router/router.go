package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/campus-market/internal/config"
	"github.com/ignatzorin/campus-market/internal/http/handlers"
	"github.com/ignatzorin/campus-market/internal/http/middleware"
	"github.com/ignatzorin/campus-market/internal/interface/http/handler"
	"github.com/ignatzorin/campus-market/internal/metrics"
	"github.com/ignatzorin/campus-market/internal/service"
)

// Handlers все обработчики, подключаемые к роутеру.
type Handlers struct {
	Health       *handlers.HealthHandler
	WS           *handlers.WSHandler
	Order        *handler.OrderHandler
	Bargain      *handler.BargainHandler
	Notification *handler.NotificationHandler
}

func SetupRouter(cfg *config.Config, h Handlers, tokenManager *service.TokenManager) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.GET("/ws", h.WS.Handle)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	protected.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		protected.POST("/orders", h.Order.CreateOrder)
		protected.GET("/orders", h.Order.ListOrders)
		protected.GET("/orders/stats", h.Order.GetStatistics)
		protected.GET("/orders/:id", middleware.UUIDValidator("id"), h.Order.GetOrder)
		protected.POST("/orders/:id/cancel", middleware.UUIDValidator("id"), h.Order.CancelOrder())
		protected.POST("/orders/:id/pay", middleware.UUIDValidator("id"), h.Order.PayOrder())
		protected.POST("/orders/:id/ship", middleware.UUIDValidator("id"), h.Order.ShipOrder())
		protected.POST("/orders/:id/confirm", middleware.UUIDValidator("id"), h.Order.ConfirmReceipt())

		// Возврат
		protected.POST("/orders/:id/refund", middleware.UUIDValidator("id"), h.Order.ApplyRefund)
		protected.POST("/orders/:id/refund/approve", middleware.UUIDValidator("id"), h.Order.ApproveRefund())
		protected.POST("/orders/:id/refund/reject", middleware.UUIDValidator("id"), h.Order.RejectRefund())

		// Споры, решение принимает модератор
		protected.POST("/orders/:id/dispute", middleware.UUIDValidator("id"), h.Order.ApplyDispute)
		protected.POST("/orders/:id/dispute/review", middleware.UUIDValidator("id"), h.Order.ReviewDispute)
		protected.POST("/orders/:id/dispute/resolve", middleware.UUIDValidator("id"), h.Order.ResolveDispute)

		// Торг
		protected.POST("/bargains", h.Bargain.CreateBargain)
		protected.GET("/bargains", h.Bargain.ListMyBargains)
		protected.GET("/bargains/:id", middleware.UUIDValidator("id"), h.Bargain.GetBargain)
		protected.POST("/bargains/:id/accept", middleware.UUIDValidator("id"), h.Bargain.AcceptBargain())
		protected.POST("/bargains/:id/reject", middleware.UUIDValidator("id"), h.Bargain.RejectBargain())
		protected.POST("/bargains/:id/cancel", middleware.UUIDValidator("id"), h.Bargain.CancelBargain())
		protected.GET("/listings/:id/bargains", middleware.UUIDValidator("id"), h.Bargain.ListListingBargains)

		protected.GET("/notifications", h.Notification.ListNotifications)
		protected.GET("/notifications/unread/count", h.Notification.CountUnread)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), h.Notification.MarkAsRead)
		protected.PUT("/notifications/read-all", h.Notification.MarkAllAsRead)
	}

	return r
}
