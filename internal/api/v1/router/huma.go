package router

import (
	"net/http"
	"os"

	"courseapp/internal/api/v1/handler"
	"courseapp/internal/config"
	"courseapp/internal/middleware"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// SetupHumaAPI creates a Huma API instance
func SetupHumaAPI(
	cfg *config.Config,
	adminAuth middleware.AdminAuthenticator,
	logger zerolog.Logger,
) (*chi.Mux, huma.API) {
	chiRouter := chi.NewRouter()

	chiRouter.Use(middleware.RecoverMiddleware(logger, !cfg.IsProduction()))
	// /admin/login stays public so the admin can obtain a token
	chiRouter.Use(middleware.AdminAuthMiddleware(adminAuth, "/admin/", []string{"/admin/login"}, logger))

	version := os.Getenv("GIT_COMMIT_SHA")
	if version == "" {
		version = "development"
	}

	handler.UseErrorModel(!cfg.IsProduction())

	humaConfig := huma.DefaultConfig("Course Registration API", version)
	humaConfig.Info.Description = "Course catalog, student accounts and seat-limited course registration"
	humaConfig.Servers = []*huma.Server{{URL: "/api"}}

	api := humachi.New(chiRouter, humaConfig)

	logger.Info().Str("version", version).Msg("Huma API initialized")

	return chiRouter, api
}

// RegisterRoutes registers all Huma operations
func RegisterRoutes(
	api huma.API,
	courseHandler *handler.CourseHandler,
	studentHandler *handler.StudentHandler,
	registrationHandler *handler.RegistrationHandler,
	agreementHandler *handler.AgreementHandler,
	adminHandler *handler.AdminHandler,
	logger zerolog.Logger,
) {
	logger.Info().Msg("Registering routes")

	// ========== STUDENT OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID:   "signUpStudent",
		Method:        http.MethodPost,
		Path:          "/students/register",
		Summary:       "Sign up a student",
		Description:   "Creates a student account and assigns it a unique 5-digit student ID",
		Tags:          []string{"students"},
		DefaultStatus: http.StatusCreated,
	}, studentHandler.SignUp)

	huma.Register(api, huma.Operation{
		OperationID: "loginStudent",
		Method:      http.MethodPost,
		Path:        "/students/login",
		Summary:     "Log in a student",
		Description: "Verifies the email and password of a student",
		Tags:        []string{"students"},
	}, studentHandler.Login)

	// ========== COURSE OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "listCourses",
		Method:      http.MethodGet,
		Path:        "/courses",
		Summary:     "List courses",
		Description: "Lists every course, newest first, with live seat counts",
		Tags:        []string{"courses"},
	}, courseHandler.ListCourses)

	huma.Register(api, huma.Operation{
		OperationID: "getCourse",
		Method:      http.MethodGet,
		Path:        "/courses/{courseId}",
		Summary:     "Get course",
		Description: "Retrieves one course with its live seat counts",
		Tags:        []string{"courses"},
	}, courseHandler.GetCourse)

	// ========== REGISTRATION OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID:   "registerForCourse",
		Method:        http.MethodPost,
		Path:          "/register",
		Summary:       "Register for a course",
		Description:   "Admits a student to a course when payment is cleared, the agreement is accepted and a seat is left",
		Tags:          []string{"registrations"},
		DefaultStatus: http.StatusCreated,
	}, registrationHandler.Register)

	huma.Register(api, huma.Operation{
		OperationID: "listStudentRegistrations",
		Method:      http.MethodGet,
		Path:        "/student/registrations",
		Summary:     "List a student's registrations",
		Description: "Lists the registrations of a student, newest first, with the registered course",
		Tags:        []string{"registrations"},
	}, registrationHandler.ListStudentRegistrations)

	// ========== AGREEMENT OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "acceptAgreement",
		Method:      http.MethodPost,
		Path:        "/agreements",
		Summary:     "Accept the course completion agreement",
		Description: "Records that a student accepted the completion agreement of a course",
		Tags:        []string{"agreements"},
	}, agreementHandler.AcceptAgreement)

	huma.Register(api, huma.Operation{
		OperationID: "getAgreementStatus",
		Method:      http.MethodGet,
		Path:        "/agreements/status",
		Summary:     "Get agreement status",
		Description: "Reports whether a student accepted the completion agreement of a course",
		Tags:        []string{"agreements"},
	}, agreementHandler.GetAgreementStatus)

	// ========== ADMIN OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "adminLogin",
		Method:      http.MethodPost,
		Path:        "/admin/login",
		Summary:     "Log in the administrator",
		Description: "Exchanges the admin credentials for a bearer token",
		Tags:        []string{"admin"},
	}, adminHandler.Login)

	huma.Register(api, huma.Operation{
		OperationID:   "createCourse",
		Method:        http.MethodPost,
		Path:          "/admin/courses",
		Summary:       "Create course",
		Description:   "Adds a course to the catalog",
		Tags:          []string{"admin"},
		DefaultStatus: http.StatusCreated,
	}, courseHandler.CreateCourse)

	huma.Register(api, huma.Operation{
		OperationID: "listAdminCourses",
		Method:      http.MethodGet,
		Path:        "/admin/courses",
		Summary:     "List courses for administration",
		Description: "Lists every course with live seat counts",
		Tags:        []string{"admin"},
	}, courseHandler.ListAdminCourses)

	huma.Register(api, huma.Operation{
		OperationID: "listCourseRegistrations",
		Method:      http.MethodGet,
		Path:        "/admin/course/{courseId}/registrations",
		Summary:     "List course registrations",
		Description: "Lists the paid registrations of a course with the registered students",
		Tags:        []string{"admin"},
	}, courseHandler.ListCourseRegistrations)

	// ========== HEALTH ==========
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"health"},
	}, handler.Health)

	logger.Info().Msg("Routes registered")
}
