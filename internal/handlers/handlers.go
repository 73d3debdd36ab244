package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"sovereign/api/internal/async"
	"sovereign/api/internal/cache"
	"sovereign/api/internal/config"
	"sovereign/api/internal/middleware"
	"sovereign/api/internal/models"
	"sovereign/api/internal/registry"
	"sovereign/api/internal/repository"
	"sovereign/api/internal/service"
)

type HandlerSet struct {
	log                zerolog.Logger
	cfg                *config.AppConfig
	authService        *service.AuthService
	applicationService *service.ApplicationService
	adminService       *service.AdminService
	db                 *pgxpool.Pool
	cache              *redis.Client
}

func NewHandlerSet(
	log zerolog.Logger,
	db *pgxpool.Pool,
	redisClient *redis.Client,
	archive service.ExportArchiver,
	tasks *async.Runner,
	cfg *config.AppConfig,
) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	sessionRegistry := registry.NewSessionRegistry(redisClient)
	statsCache := cache.NewStatsCache(redisClient)

	auth := service.NewAuthService(userRepo, sessionRegistry, tasks, cfg, log)
	applications := service.NewApplicationService(applicationRepo, log)
	admin := service.NewAdminService(userRepo, applicationRepo, reviewRepo, statsCache, archive, tasks, cfg, log)

	return HandlerSet{
		log:                log,
		cfg:                cfg,
		authService:        auth,
		applicationService: applications,
		adminService:       admin,
		db:                 db,
		cache:              redisClient,
	}
}

// AdminService exposes the admin service for the stats refresh job.
func (h HandlerSet) AdminService() *service.AdminService {
	return h.adminService
}

func (h HandlerSet) Register(router *gin.Engine) {
	router.GET("/", h.Banner)
	router.GET("/health", h.Health)

	auth := router.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)

	applications := router.Group("/applications")
	applications.Use(middleware.Auth(h.cfg))
	applications.POST("", h.SubmitApplication)
	applications.GET("/status", h.ApplicationStatus)
	applications.GET("/affirmations", h.AffirmationPrompts)

	admin := router.Group("/admin")
	// Login and the dashboard page are the two unauthenticated admin
	// routes; everything registered after Use is token- and role-gated.
	admin.POST("/login", h.AdminLogin)
	admin.GET("/dashboard", h.AdminDashboard)

	admin.Use(
		middleware.Auth(h.cfg),
		middleware.RequireRole(string(models.UserRoleAdmin)),
	)
	admin.GET("/stats", h.AdminStats)
	admin.GET("/applications", h.AdminListApplications)
	admin.GET("/users", h.AdminListUsers)
	admin.POST("/approve", h.AdminApprove)
	admin.POST("/reject", h.AdminReject)
	admin.POST("/bulk-action", h.AdminBulkAction)
	admin.POST("/export-data", h.AdminExportData)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Not Found"})
	})
}
