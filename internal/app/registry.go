package app

import (
	"context"
	"database/sql"
	"time"

	"hr-portal/internal/approval"
	"hr-portal/internal/auth"
	"hr-portal/internal/calendar"
	"hr-portal/internal/chat"
	"hr-portal/internal/config"
	"hr-portal/internal/employee"
	"hr-portal/internal/leave"
	"hr-portal/internal/messaging/kafka"
	"hr-portal/internal/middleware"
	"hr-portal/internal/payroll"
	"hr-portal/internal/policy"
	"hr-portal/internal/rbac"
	"hr-portal/internal/rbac/infra"
	"hr-portal/internal/shared/counter"
	"hr-portal/internal/shared/storage"
	"hr-portal/internal/shared/token"
	"hr-portal/internal/ticket"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	ticketRepo := ticket.NewRepository(gormDB)
	approvalRepo := approval.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	policyRepo := policy.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	store, err := newObjectStore(cfg.Storage, logger)
	if err != nil {
		return err
	}

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer, nil, logger)
	if err != nil {
		return err
	}

	// --- Auth ---
	tokens := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	blacklist := token.NewRedisBlacklist(rdb)
	authMiddleware := middleware.AuthMiddleware(tokens, blacklist)

	// --- Services ---
	authService := auth.NewService(db, authRepo, employeeRepo, tokens, blacklist, rdb, logger)
	employeeService := employee.NewService(db, employeeRepo, rdb, logger)
	leaveService := leave.NewService(db, leaveRepo, employeeRepo, outboxRepo, rdb, logger)
	ticketService := ticket.NewService(db, ticketRepo, counterRepo, outboxRepo, logger)
	approvalService := approval.NewService(db, approvalRepo, counterRepo, outboxRepo, logger)
	payrollService := payroll.NewService(payrollRepo, employeeRepo, logger)
	policyService := policy.NewService(policyRepo, store, logger)
	calendarService := calendar.NewService(calendar.Holidays2026, leaveService, logger)
	assistant := chat.NewToolAssistant(employeeService, leaveService, ticketService, calendar.Holidays2026, logger)
	chatService := chat.NewService(assistant, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.IsProduction(), logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	ticketHandler := ticket.NewHandler(ticketService, logger)
	approvalHandler := approval.NewHandler(approvalService, logger)
	payrollHandler := payroll.NewHandler(payrollService, logger)
	policyHandler := policy.NewHandler(policyService, logger)
	calendarHandler := calendar.NewHandler(calendarService, logger)
	chatHandler := chat.NewHandler(chatService, logger)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api")
	{
		auth.RegisterRoutes(api, authHandler, authMiddleware)
		employee.RegisterRoutes(api, employeeHandler, authMiddleware, rbacService, logger)
		leave.RegisterRoutes(api, leaveHandler, authMiddleware, rbacService, rdb, logger)
		ticket.RegisterRoutes(api, ticketHandler, authMiddleware, rbacService, rdb, logger)
		approval.RegisterRoutes(api, approvalHandler, authMiddleware, rbacService, rdb, logger)
		payroll.RegisterRoutes(api, payrollHandler, authMiddleware, rbacService, rdb, logger)
		policy.RegisterRoutes(api, policyHandler, authMiddleware, rbacService, rdb, logger)
		calendar.RegisterRoutes(api, calendarHandler, authMiddleware, rbacService, logger)
		rbac.RegisterRoutes(api.Group("", authMiddleware), rbacHandler)
	}
	chat.RegisterRoutes(router, chatHandler, authMiddleware, rbacService, logger)

	return nil
}

// newObjectStore returns a nil store when no endpoint is configured; policy
// uploads then answer 503.
func newObjectStore(cfg config.StorageConfig, logger *zap.Logger) (storage.ObjectStore, error) {
	if cfg.Endpoint == "" {
		logger.Warn("object storage not configured, policy uploads disabled")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := storage.NewMinioStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("object storage ready",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket),
	)
	return store, nil
}
