package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/shop-backend/internal/apperr"
	"github.com/tuanvumaihuynh/shop-backend/internal/config"
	"github.com/tuanvumaihuynh/shop-backend/internal/http/apierr"
	"github.com/tuanvumaihuynh/shop-backend/internal/http/metric"
	"github.com/tuanvumaihuynh/shop-backend/internal/http/middleware"
	"github.com/tuanvumaihuynh/shop-backend/internal/http/swagger"
	"github.com/tuanvumaihuynh/shop-backend/internal/service"
	"github.com/tuanvumaihuynh/shop-backend/internal/storage/db"
	"github.com/tuanvumaihuynh/shop-backend/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg      config.HTTP
	logger   *slog.Logger
	metrics  *metric.Metrics
	validate validator.Validator

	productSvc service.ProductService
	cartSvc    service.CartService
	health     db.HealthChecker
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	validate validator.Validator,
	productSvc service.ProductService,
	cartSvc service.CartService,
	health db.HealthChecker,
) *Service {
	return &Service{
		cfg:        cfg,
		logger:     log.With(slog.String("service", "http")),
		metrics:    metric.New(),
		validate:   validate,
		productSvc: productSvc,
		cartSvc:    cartSvc,
		health:     health,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r)
	}

	s.RegisterHandlers(r)

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))

	return s.RunWithServer(ctx, r)
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	productHandler := newProductHandler(s, s.productSvc)
	cartHandler := newCartHandler(s, s.cartSvc)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", productHandler.ListProducts)
		r.Post("/products", productHandler.CreateProduct)
		// legacy route kept for clients of the original surface
		r.Post("/producto", productHandler.CreateProduct)
		r.Get("/products/{pid}", productHandler.GetProduct)
		r.Put("/products/{pid}", productHandler.UpdateProduct)
		r.Delete("/products/{pid}", productHandler.DeleteProduct)

		r.Post("/carts", cartHandler.CreateCart)
		r.Get("/carts/{cid}", cartHandler.GetCart)
		r.Post("/carts/{cid}/product/{pid}", cartHandler.AddProductToCart)
	})

	r.Get("/healthz", s.handleHealthz)
}

func (s *Service) handleHealthz(w http.ResponseWriter, r *http.Request) {
	healthy, err := s.health.IsHealthy(r.Context())
	if err != nil || !healthy {
		s.logger.ErrorContext(r.Context(), "health check failed", slog.Any("error", err))
		s.respondJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}

	s.respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding response",
			slog.Any("error", err))
	}
}

// respondRequestError reports body decode failures as validation errors.
func (s *Service) respondRequestError(w http.ResponseWriter, r *http.Request, err error) {
	s.respondError(w, r, apperr.ValidationErr.WrapParent(err))
}

func (s *Service) respondError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}
