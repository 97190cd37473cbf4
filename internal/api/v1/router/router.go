package router

import (
	"net/http"

	"courseapp/internal/api/v1/handler"
	"courseapp/internal/config"
	"courseapp/internal/middleware"
	"courseapp/internal/pubsub"
	"courseapp/internal/repository"
	"courseapp/internal/service"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Dependencies are the already opened resources the router wires into services
type Dependencies struct {
	Repositories     repository.Repositories
	Publisher        pubsub.Publisher
	AdminCredentials service.AdminCredentials
	// StudentIDGenerator defaults to service.RandomStudentID
	StudentIDGenerator service.StudentIDGenerator
}

func New(cfg *config.Config, deps Dependencies, logger zerolog.Logger) http.Handler {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initialized")

	repos := deps.Repositories

	courseSvc := service.NewCourseService(repos.Courses, repos.Registrations, logger)
	studentSvc := service.NewStudentService(repos.Students, deps.StudentIDGenerator, cfg.StudentIDMaxAttempts, cfg.BcryptCost, logger)
	agreementSvc := service.NewAgreementService(repos.Agreements, logger)
	registrationSvc := service.NewRegistrationService(repos.Students, repos.Courses, repos.Registrations, deps.Publisher, cfg.PubSubRegistrationTopic, logger)
	adminSvc := service.NewAdminService(deps.AdminCredentials, cfg.JWTSecret, cfg.AdminTokenTTL, logger)

	courseHandler := handler.NewCourseHandler(courseSvc, registrationSvc, logger)
	studentHandler := handler.NewStudentHandler(studentSvc, logger)
	registrationHandler := handler.NewRegistrationHandler(registrationSvc, logger)
	agreementHandler := handler.NewAgreementHandler(agreementSvc, logger)
	adminHandler := handler.NewAdminHandler(adminSvc, logger)

	chiRouter, api := SetupHumaAPI(cfg, adminSvc, logger)
	RegisterRoutes(api, courseHandler, studentHandler, registrationHandler, agreementHandler, adminHandler, logger)

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", chiRouter))

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		Debug:            false,
	})

	return middleware.LoggerMiddleware(logger)(c.Handler(mux))
}
