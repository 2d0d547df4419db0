package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lifeguard-api/internal/config"
	"github.com/lifeguard-api/internal/transport/http/handler"
	appmiddleware "github.com/lifeguard-api/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds the
// rate limiter's background cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(appmiddleware.RequestLogger(log.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(appmiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", appmiddleware.InitDataHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	rl := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	healthH := handler.NewHealthHandler(cfg.AppName, deps.Version)
	userH := handler.NewUserHandler(deps.Accounts, deps.Export)
	workoutH := handler.NewWorkoutHandler(deps.Workouts)
	nutritionH := handler.NewNutritionHandler(deps.Nutrition)
	shoppingH := handler.NewShoppingHandler(deps.Shopping)

	r.Get("/", healthH.Root)
	r.Get("/health", healthH.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(rl.Limit)
		r.Use(appmiddleware.TelegramAuth(deps.Verifier, deps.Accounts))

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", userH.Me)
			r.Patch("/", userH.UpdateMe)
			r.Get("/goals", userH.Goals)
			r.Put("/goals", userH.SetGoals)
			r.Post("/export", userH.Export)
		})

		r.Route("/workouts", func(r chi.Router) {
			r.Get("/", workoutH.List)
			r.Post("/", workoutH.Create)
			r.Get("/summary/weekly", workoutH.WeeklySummary)
			r.Get("/{id}", workoutH.Get)
			r.Patch("/{id}", workoutH.Update)
			r.Delete("/{id}", workoutH.Delete)
			r.Post("/{id}/exercises", workoutH.AddExercise)
			r.Patch("/{id}/exercises/{exerciseID}", workoutH.UpdateExercise)
			r.Delete("/{id}/exercises/{exerciseID}", workoutH.DeleteExercise)
		})

		r.Route("/nutrition", func(r chi.Router) {
			r.Get("/meals", nutritionH.ListMeals)
			r.Post("/meals", nutritionH.CreateMeal)
			r.Get("/meals/{id}", nutritionH.GetMeal)
			r.Patch("/meals/{id}", nutritionH.UpdateMeal)
			r.Delete("/meals/{id}", nutritionH.DeleteMeal)
			r.Get("/water", nutritionH.ListWater)
			r.Post("/water", nutritionH.LogWater)
			r.Get("/water/today", nutritionH.TodayWater)
			r.Get("/summary/{date}", nutritionH.DailySummary)
		})

		r.Route("/shopping", func(r chi.Router) {
			r.Get("/", shoppingH.List)
			r.Post("/", shoppingH.Create)
			r.Post("/bulk", shoppingH.CreateBulk)
			r.Get("/summary", shoppingH.Summary)
			r.Delete("/clear/purchased", shoppingH.ClearPurchased)
			r.Get("/{id}", shoppingH.Get)
			r.Patch("/{id}", shoppingH.Update)
			r.Patch("/{id}/toggle", shoppingH.Toggle)
			r.Delete("/{id}", shoppingH.Delete)
		})
	})

	return r
}
