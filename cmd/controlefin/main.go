package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	database "github.com/rpoliveira/controlefin/db"
	"github.com/rpoliveira/controlefin/internal/auth"
	"github.com/rpoliveira/controlefin/internal/ledger/application"
	"github.com/rpoliveira/controlefin/internal/ledger/infrastructure"
	"github.com/rpoliveira/controlefin/internal/ledger/interfaces"
	"github.com/rpoliveira/controlefin/internal/user"
)

type Response struct {
	Message string `json:"message"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("Started %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("Completed %s in %v", r.URL.Path, time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

type Server struct {
	router              *http.ServeMux
	authHandler         *auth.Handler
	userHandler         *user.Handler
	authService         auth.Service
	goalHandler         *interfaces.GoalHandler
	expenseHandler      *interfaces.ExpenseHandler
	fixedExpenseHandler *interfaces.FixedExpenseHandler
	salaryHandler       *interfaces.SalaryHandler
	categoryHandler     *interfaces.CategoryHandler
	auditHandler        *interfaces.AuditHandler
}

func NewServer(
	authHandler *auth.Handler,
	authService auth.Service,
	userHandler *user.Handler,
	goalHandler *interfaces.GoalHandler,
	expenseHandler *interfaces.ExpenseHandler,
	fixedExpenseHandler *interfaces.FixedExpenseHandler,
	salaryHandler *interfaces.SalaryHandler,
	categoryHandler *interfaces.CategoryHandler,
	auditHandler *interfaces.AuditHandler,
) *Server {
	return &Server{
		authHandler:         authHandler,
		userHandler:         userHandler,
		authService:         authService,
		goalHandler:         goalHandler,
		expenseHandler:      expenseHandler,
		fixedExpenseHandler: fixedExpenseHandler,
		salaryHandler:       salaryHandler,
		categoryHandler:     categoryHandler,
		auditHandler:        auditHandler,
		router:              http.NewServeMux(),
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func checkConfiguration() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		return errors.New("no JWT_SECRET Provided")
	}
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ready",
	})
}

func (s *Server) RegisterRoutes() {
	withAuth := s.authService.JWTAccessTokenMiddleware()
	adminOnly := s.authService.RequireAdmin()

	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/register", http.HandlerFunc(s.userHandler.HandleRegister))
	publicRoutes.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	publicRoutes.Handle("POST /api/auth/logout", http.HandlerFunc(s.authHandler.HandleLogout))
	publicRoutes.Handle("POST /api/auth/2fa/verify", http.HandlerFunc(s.authHandler.HandleVerifyTwoFactor))
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()
	protectedRoutes.Handle("GET /api/protected/perfil", withAuth(http.HandlerFunc(s.userHandler.HandleGetUserProfile)))
	protectedRoutes.Handle("POST /api/protected/change-password", withAuth(http.HandlerFunc(s.userHandler.HandleChangePassword)))

	protectedRoutes.Handle("POST /api/protected/2fa/register", withAuth(http.HandlerFunc(s.authHandler.HandleRegisterTwoFactor)))
	protectedRoutes.Handle("POST /api/protected/2fa/verify-registration", withAuth(http.HandlerFunc(s.authHandler.HandleVerifyTwoFactorCode)))
	protectedRoutes.Handle("DELETE /api/protected/2fa/disable", withAuth(http.HandlerFunc(s.authHandler.HandleDisableTwoFactor)))

	// METAS API
	protectedRoutes.Handle("POST /api/protected/metas", withAuth(http.HandlerFunc(s.goalHandler.CreateGoal)))
	protectedRoutes.Handle("GET /api/protected/metas", withAuth(http.HandlerFunc(s.goalHandler.GetUserGoals)))
	protectedRoutes.Handle("GET /api/protected/metas/{goalID}", withAuth(http.HandlerFunc(s.goalHandler.GetGoal)))
	protectedRoutes.Handle("PUT /api/protected/metas/{goalID}", withAuth(http.HandlerFunc(s.goalHandler.UpdateGoal)))
	protectedRoutes.Handle("DELETE /api/protected/metas/{goalID}", withAuth(http.HandlerFunc(s.goalHandler.DeleteGoal)))

	// GASTOS VARIAVEIS API
	protectedRoutes.Handle("POST /api/protected/gastos-variaveis", withAuth(http.HandlerFunc(s.expenseHandler.CreateExpense)))
	protectedRoutes.Handle("GET /api/protected/gastos-variaveis", withAuth(http.HandlerFunc(s.expenseHandler.GetUserExpenses)))
	protectedRoutes.Handle("PUT /api/protected/gastos-variaveis/{expenseID}", withAuth(http.HandlerFunc(s.expenseHandler.UpdateExpense)))
	protectedRoutes.Handle("DELETE /api/protected/gastos-variaveis/{expenseID}", withAuth(http.HandlerFunc(s.expenseHandler.DeleteExpense)))
	protectedRoutes.Handle("GET /api/protected/resumo-mensal", withAuth(http.HandlerFunc(s.expenseHandler.GetMonthlySummary)))

	// GASTOS FIXOS API
	protectedRoutes.Handle("POST /api/protected/gastos-fixos", withAuth(http.HandlerFunc(s.fixedExpenseHandler.CreateFixedExpense)))
	protectedRoutes.Handle("GET /api/protected/gastos-fixos", withAuth(http.HandlerFunc(s.fixedExpenseHandler.GetUserFixedExpenses)))
	protectedRoutes.Handle("PUT /api/protected/gastos-fixos/{fixedExpenseID}", withAuth(http.HandlerFunc(s.fixedExpenseHandler.UpdateFixedExpense)))
	protectedRoutes.Handle("DELETE /api/protected/gastos-fixos/{fixedExpenseID}", withAuth(http.HandlerFunc(s.fixedExpenseHandler.DeleteFixedExpense)))

	// SALARIOS API
	protectedRoutes.Handle("POST /api/protected/salarios", withAuth(http.HandlerFunc(s.salaryHandler.CreateSalary)))
	protectedRoutes.Handle("GET /api/protected/salarios", withAuth(http.HandlerFunc(s.salaryHandler.GetUserSalaries)))
	protectedRoutes.Handle("PUT /api/protected/salarios/{salaryID}", withAuth(http.HandlerFunc(s.salaryHandler.UpdateSalary)))
	protectedRoutes.Handle("DELETE /api/protected/salarios/{salaryID}", withAuth(http.HandlerFunc(s.salaryHandler.DeleteSalary)))

	// CATEGORIAS API
	protectedRoutes.Handle("POST /api/protected/categorias", withAuth(http.HandlerFunc(s.categoryHandler.CreateCategory)))
	protectedRoutes.Handle("GET /api/protected/categorias", withAuth(http.HandlerFunc(s.categoryHandler.GetUserCategories)))
	protectedRoutes.Handle("PUT /api/protected/categorias/{categoryID}", withAuth(http.HandlerFunc(s.categoryHandler.UpdateCategory)))
	protectedRoutes.Handle("DELETE /api/protected/categorias/{categoryID}", withAuth(http.HandlerFunc(s.categoryHandler.DeleteCategory)))

	// Admin routes (role claim checked after authentication)
	adminRoutes := http.NewServeMux()
	adminRoutes.Handle("GET /api/admin/users", withAuth(adminOnly(http.HandlerFunc(s.userHandler.HandleListUsers))))
	adminRoutes.Handle("POST /api/admin/audit/reconcile", withAuth(adminOnly(http.HandlerFunc(s.auditHandler.ReconcileAll))))
	adminRoutes.Handle("POST /api/admin/audit/orphans", withAuth(adminOnly(http.HandlerFunc(s.auditHandler.FindOrphanExpenses))))

	// Refresh token routes
	refreshTokenRoutes := http.NewServeMux()
	refreshTokenRoutes.Handle("PUT /api/refresh/token", s.authService.JWTRefreshTokenMiddleware()(http.HandlerFunc(s.authHandler.RefreshAccessToken)))

	// Main router
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/api/admin/", adminRoutes)
	mainRouter.Handle("/api/refresh/", refreshTokenRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

func main() {
	if err := checkConfiguration(); err != nil {
		log.Fatalf("Missing configuration, update to start server")
	}

	dbService, err := database.NewDBService()
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer dbService.Close()

	authRepo := auth.NewUserRepository(dbService.DB)
	userRepo := user.NewUserRepository(dbService.DB)

	sessionManager := auth.NewSessionManager()
	sessionManager.StartSessionTokenCleanup(time.Minute)
	jwtManager := auth.NewJWTManager()
	authenticator := &auth.Authenticator{}

	userService := user.NewUserService(userRepo)
	userHandler := user.NewHandler(userService)
	authService := auth.NewAuthService(authRepo, userService, sessionManager, jwtManager, authenticator)
	authHandler := auth.NewHandler(authService)

	goalRepo := infrastructure.NewGoalRepository(dbService.DB)
	expenseRepo := infrastructure.NewExpenseRepository(dbService.DB)
	categoryRepo := infrastructure.NewCategoryRepository(dbService.DB)
	fixedExpenseRepo := infrastructure.NewFixedExpenseRepository(dbService.DB)
	salaryRepo := infrastructure.NewSalaryRepository(dbService.DB)

	reconciler := application.NewReconciler(goalRepo, expenseRepo)
	categoryService := application.NewCategoryService(categoryRepo)
	goalService := application.NewGoalService(goalRepo, expenseRepo)
	expenseService := application.NewExpenseService(expenseRepo, reconciler, categoryService)
	fixedExpenseService := application.NewFixedExpenseService(fixedExpenseRepo, categoryService)
	salaryService := application.NewSalaryService(salaryRepo)

	goalHandler := interfaces.NewGoalHandler(goalService, respondJSON, respondError)
	expenseHandler := interfaces.NewExpenseHandler(expenseService, respondJSON, respondError)
	fixedExpenseHandler := interfaces.NewFixedExpenseHandler(fixedExpenseService, respondJSON, respondError)
	salaryHandler := interfaces.NewSalaryHandler(salaryService, respondJSON, respondError)
	categoryHandler := interfaces.NewCategoryHandler(categoryService, respondJSON, respondError)
	auditHandler := interfaces.NewAuditHandler(reconciler, respondJSON, respondError)

	server := NewServer(authHandler, authService, userHandler, goalHandler, expenseHandler, fixedExpenseHandler, salaryHandler, categoryHandler, auditHandler)
	server.RegisterRoutes()

	if err := startAuditScheduler(reconciler); err != nil {
		log.Fatalf("Audit scheduler didn't start, stopping the app: %v", err)
	}

	handler := loggingMiddleware(http.HandlerFunc(server.router.ServeHTTP))
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s...", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// startAuditScheduler runs the balance reconciliation on the schedule given by
// AUDIT_SCHEDULE (cron syntax). Unset means no scheduled audits.
func startAuditScheduler(reconciler *application.Reconciler) error {
	schedule := os.Getenv("AUDIT_SCHEDULE")
	if schedule == "" {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		drifts, err := reconciler.ReconcileAll()
		if err != nil {
			log.Printf("Error during scheduled reconciliation: %v", err)
			return
		}
		if len(drifts) > 0 {
			log.Printf("Scheduled reconciliation repaired %d goal balances", len(drifts))
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	return nil
}
