package api

import (
	"codecourse/internal/api/handler"
	"codecourse/internal/api/middleware"
	"codecourse/internal/app/service"
	"codecourse/internal/common/security"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

type Services struct {
	Auth     *service.AuthService
	Course   *service.CourseService
	Exercise *service.ExerciseService
	Run      *service.RunService
	AI       *service.AIService
}

func NewRouter(services Services, corsOrigins []string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger.With().Str("component", "http").Logger()))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.StripSlashes)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler)

	// Verifier only records the token (or its error) in the context; routes
	// decide whether they need it.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	validate := validator.New(validator.WithRequiredStructEnabled())

	handler.NewHealthHandler().RegisterRoutes(r)

	r.Route("/auth", handler.NewAuthHandler(services.Auth, validate).RegisterRoutes)

	courseHandler := handler.NewCourseHandler(services.Course, validate)
	exerciseHandler := handler.NewExerciseHandler(services.Exercise, validate)
	r.Route("/courses", func(cr chi.Router) {
		courseHandler.RegisterRoutes(cr)
		cr.Route("/{courseID}/exercises", exerciseHandler.RegisterRoutes)
	})

	r.Route("/run", handler.NewRunHandler(services.Run).RegisterRoutes)
	r.Route("/ai", handler.NewAIHandler(services.AI, validate).RegisterRoutes)

	return r
}
