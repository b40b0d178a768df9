package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/truenorthhq/compass/internal/api/handlers"
	mw "github.com/truenorthhq/compass/internal/api/middleware"
	"github.com/truenorthhq/compass/internal/config"
	"github.com/truenorthhq/compass/internal/domain"
	"github.com/truenorthhq/compass/internal/service"
	"github.com/truenorthhq/compass/internal/store"
	"go.uber.org/zap"
)

// App holds the router and background services for lifecycle management.
type App struct {
	Router     *chi.Mux
	State      *service.StateService
	Reflection *service.ReflectionService
	Monitor    *service.DriftMonitor

	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(logger *zap.Logger) *App {
	// Store and services
	stateStore := store.NewStateStore(config.OrgID())
	stateSvc := service.NewStateService(stateStore, logger)
	checker := service.NewCoherenceChecker(logger)
	classifier := service.NewDriftClassifier(logger)
	reflectionSvc := service.NewReflectionService(stateSvc, checker, classifier, logger)

	monitor := service.NewDriftMonitor(reflectionSvc, logger)
	monitor.SetInterval(time.Duration(config.DriftCheckIntervalHours() * float64(time.Hour)))

	// Handlers
	beliefHandler := handlers.NewBeliefHandler(stateSvc)
	desireHandler := handlers.NewDesireHandler(stateSvc)
	intentionHandler := handlers.NewIntentionHandler(stateSvc)
	stateHandler := handlers.NewStateHandler(stateSvc, checker, classifier, reflectionSvc)

	r := chi.NewRouter()

	app := &App{
		Router:     r,
		State:      stateSvc,
		Reflection: reflectionSvc,
		Monitor:    monitor,
		startTime:  time.Now(),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	r.Get("/health", healthHandler())
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/beliefs", func(r chi.Router) {
			r.Post("/", beliefHandler.Create)
			r.Get("/", beliefHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", beliefHandler.GetByID)
				r.Patch("/", beliefHandler.Patch)
				r.Post("/archive", beliefHandler.Archive)
			})
		})

		r.Route("/desires", func(r chi.Router) {
			r.Post("/", desireHandler.Create)
			r.Get("/", desireHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", desireHandler.GetByID)
				r.Patch("/", desireHandler.Patch)
				r.Post("/suspend", desireHandler.Suspend)
			})
		})

		r.Route("/intentions", func(r chi.Router) {
			r.Post("/", intentionHandler.Create)
			r.Get("/", intentionHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", intentionHandler.GetByID)
				r.Patch("/", intentionHandler.Patch)
				r.Post("/complete", intentionHandler.Complete)
			})
		})

		r.Route("/state", func(r chi.Router) {
			r.Get("/snapshot", stateHandler.GetSnapshot)
			r.Get("/coherence", stateHandler.CheckCoherence)
			r.Post("/drift", stateHandler.ClassifyDrift)
			r.Post("/drift/events", stateHandler.ClassifyDriftEvents)
			r.Post("/reflect", stateHandler.Reflect)
			r.Get("/reflect/history", stateHandler.History)
			r.Get("/revisions/{kind}/{id}", stateHandler.GetRevisions)
		})
	})

	return app
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure the in-memory store satisfies the domain interface at compile time.
var _ domain.StateStore = (*store.StateStore)(nil)
