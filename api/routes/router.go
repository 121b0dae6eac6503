package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/freshmart/freshmart-backend/api/controllers"
	"github.com/freshmart/freshmart-backend/api/middleware"
	checkoutsvc "github.com/freshmart/freshmart-backend/internal/checkout"
	customersvc "github.com/freshmart/freshmart-backend/internal/customers"
	feedbacksvc "github.com/freshmart/freshmart-backend/internal/feedback"
	loyaltysvc "github.com/freshmart/freshmart-backend/internal/loyalty"
	notificationsvc "github.com/freshmart/freshmart-backend/internal/notifications"
	productsvc "github.com/freshmart/freshmart-backend/internal/products"
	promosvc "github.com/freshmart/freshmart-backend/internal/promotions"
	purchasesvc "github.com/freshmart/freshmart-backend/internal/purchases"
	"github.com/freshmart/freshmart-backend/pkg/config"
	"github.com/freshmart/freshmart-backend/pkg/db"
	"github.com/freshmart/freshmart-backend/pkg/logger"
	"github.com/freshmart/freshmart-backend/pkg/redis"
)

// Services bundles the wired service layer handed to the router.
type Services struct {
	Customers     customersvc.Service
	Products      productsvc.Service
	Promotions    promosvc.Service
	Purchases     purchasesvc.Service
	Checkout      checkoutsvc.Service
	Loyalty       loyaltysvc.Service
	Feedback      feedbacksvc.Service
	Notifications notificationsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	redeemPolicy := middleware.RateLimitPolicy{
		Name:   "redeem",
		Window: cfg.RateLimit.RedeemWindow,
		Limit:  cfg.RateLimit.RedeemLimit,
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Get("/products", controllers.ListProducts(svcs.Products, logg, true))
		r.Get("/products/{productId}", controllers.GetProduct(svcs.Products, logg))
		r.Get("/promotions", controllers.ListActivePromotions(svcs.Promotions, logg))
		r.Get("/faqs", controllers.ListFAQs(svcs.Feedback, logg))
		r.Post("/register", controllers.Register(svcs.Customers, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.GetProfile(svcs.Customers, logg))
			r.Patch("/", controllers.UpdateProfile(svcs.Customers, logg))
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Get("/", controllers.ListPurchases(svcs.Purchases, logg))
			r.Get("/{purchaseId}", controllers.GetPurchase(svcs.Purchases, logg))
			r.Get("/{purchaseId}/invoice", controllers.GetInvoice(svcs.Purchases, logg))
		})

		r.Post("/checkout/quote", controllers.QuoteCart(svcs.Checkout, logg))
		r.Post("/checkout", controllers.Checkout(svcs.Checkout, logg))

		r.Route("/points", func(r chi.Router) {
			r.With(middleware.RateLimit(redeemPolicy, redisClient, logg)).
				Post("/redeem", controllers.RedeemPoints(svcs.Loyalty, logg))
			r.Get("/history", controllers.PointHistory(svcs.Loyalty, logg))
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Post("/", controllers.SubmitFeedback(svcs.Feedback, logg))
			r.Get("/", controllers.ListMyFeedback(svcs.Feedback, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(svcs.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Products, logg, false))
			r.Post("/", controllers.CreateProduct(svcs.Products, logg))
			r.Get("/{productId}", controllers.GetProduct(svcs.Products, logg))
			r.Patch("/{productId}", controllers.UpdateProduct(svcs.Products, logg))
			r.Delete("/{productId}", controllers.DeactivateProduct(svcs.Products, logg))
		})

		r.Route("/promotions", func(r chi.Router) {
			r.Get("/", controllers.ListPromotions(svcs.Promotions, logg))
			r.Post("/", controllers.CreatePromotion(svcs.Promotions, logg))
			r.Get("/{promotionId}", controllers.GetPromotion(svcs.Promotions, logg))
			r.Patch("/{promotionId}", controllers.UpdatePromotion(svcs.Promotions, logg))
			r.Delete("/{promotionId}", controllers.DeletePromotion(svcs.Promotions, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(svcs.Customers, logg))
			r.Get("/{customerId}", controllers.GetCustomerProfile(svcs.Customers, logg))
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Get("/", controllers.ListFeedback(svcs.Feedback, logg))
			r.Post("/{feedbackId}/respond", controllers.RespondFeedback(svcs.Feedback, logg))
			r.Post("/{feedbackId}/archive", controllers.ArchiveFeedback(svcs.Feedback, logg))
		})

		r.Route("/faqs", func(r chi.Router) {
			r.Get("/", controllers.ListAllFAQs(svcs.Feedback, logg))
			r.Post("/", controllers.CreateFAQ(svcs.Feedback, logg))
			r.Patch("/{faqId}", controllers.UpdateFAQ(svcs.Feedback, logg))
			r.Delete("/{faqId}", controllers.DeleteFAQ(svcs.Feedback, logg))
		})
	})

	return r
}
