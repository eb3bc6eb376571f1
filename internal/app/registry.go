package app

import (
	"context"
	"strings"

	"go-leaves/internal/approvaltoken"
	"go-leaves/internal/auth"
	"go-leaves/internal/balance"
	"go-leaves/internal/config"
	"go-leaves/internal/contact"
	"go-leaves/internal/leave"
	"go-leaves/internal/leavetype"
	"go-leaves/internal/messaging/kafka"
	"go-leaves/internal/middleware"
	"go-leaves/internal/nonce"
	"go-leaves/internal/notification"
	"go-leaves/internal/rbac"
	"go-leaves/internal/rbac/infra"
	"go-leaves/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// core is the leave workflow and its collaborators, shared by the api and
// the notification consumer.
type core struct {
	leaveRepo   leave.Repository
	leaveTypes  leavetype.Repository
	users       user.Repository
	balances    balance.Service
	details     leave.DetailReader
	tokens      approvaltoken.Service
	templates   notification.TemplateRepository
	notifyLogs  notification.LogRepository
	dispatcher  *notification.Dispatcher
	balanceRepo balance.Repository
}

func buildCore(in *Infra, logger *zap.Logger) *core {
	cfg := in.Config
	db := in.GormDB

	c := &core{
		leaveRepo:   leave.NewRepository(db),
		leaveTypes:  leavetype.NewRepository(db),
		users:       user.NewRepository(db),
		balanceRepo: balance.NewRepository(db),
		templates:   notification.NewTemplateRepository(db),
		notifyLogs:  notification.NewLogRepository(db),
	}
	c.balances = balance.NewService(c.balanceRepo, c.leaveTypes, logger)
	c.details = leave.NewDetailReader(c.leaveRepo, c.leaveTypes, c.users)
	c.tokens = approvaltoken.NewService(
		approvaltoken.NewRepository(db),
		c.leaveRepo,
		approvaltoken.Config{TTL: cfg.Tokens.TTL, Retention: cfg.Tokens.Retention},
		logger,
	)
	c.dispatcher = notification.NewDispatcher(
		c.details,
		c.tokens,
		c.templates,
		c.notifyLogs,
		notification.NewMailer(cfg.Mail, logger),
		notificationSettings(cfg),
		logger,
	)
	return c
}

func notificationSettings(cfg *config.Config) notification.Settings {
	return notification.Settings{
		Enabled:           cfg.Notifications.Enabled,
		OnSubmit:          cfg.Notifications.OnSubmit,
		OnApprove:         cfg.Notifications.OnApprove,
		OnReject:          cfg.Notifications.OnReject,
		HREmail:           cfg.Notifications.HREmail,
		BaseURL:           cfg.Server.BaseURL,
		AdminDashboardURL: cfg.Notifications.AdminDashboardURL,
	}
}

// leaveService builds the workflow. With a broker configured notifications are
// queued in the outbox for the consumer, otherwise they are sent in-process.
func (c *core) leaveService(in *Infra, contacts leave.ContactRecorder, logger *zap.Logger) leave.Service {
	var notifier leave.Notifier = c.dispatcher
	if in.Config.Kafka.Broker != "" {
		notifier = notification.NewOutboxNotifier(kafka.NewOutboxRepository(in.SQLDB), logger)
	}
	return leave.NewService(leave.Dependencies{
		DB:         in.SQLDB,
		Repo:       c.leaveRepo,
		LeaveTypes: c.leaveTypes,
		Employees:  c.users,
		Balances:   c.balances,
		Notifier:   notifier,
		Contacts:   contacts,
	}, logger)
}

func registerModules(router *gin.Engine, in *Infra, logger *zap.Logger) error {
	cfg := in.Config
	db := in.GormDB

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbac.NewRepository(db), enforcer, logger)
	if err := rbacService.LoadPolicy(context.Background()); err != nil {
		return err
	}
	nonceService := nonce.NewService(cfg.Auth.NonceSecret, cfg.Auth.NonceTTL)

	guard := &middleware.Guard{
		JWTSecret: cfg.Auth.JWTSecret,
		RBAC:      rbacService,
		Nonces:    nonceService,
		Redis:     in.Redis,
	}

	// --- Services ---
	c := buildCore(in, logger)
	contactService := contact.NewService(contact.NewRepository(db), in.Redis, logger)
	leaveService := c.leaveService(in, contactService, logger)
	redeemer := approvaltoken.NewRedeemer(c.tokens, leaveService, logger)

	authService := auth.NewService(c.users, cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, logger)
	userService := user.NewService(c.users)
	leaveTypeService := leavetype.NewService(c.leaveTypes, logger)
	notificationService := notification.NewService(c.templates, c.notifyLogs, logger)

	// --- Handlers ---
	secureCookie := strings.HasPrefix(cfg.Server.BaseURL, "https://")
	authHandler := auth.NewHandler(authService, secureCookie, cfg.Auth.AccessTokenTTL)
	userHandler := user.NewHandler(userService)
	rbacHandler := rbac.NewHandler(rbacService)
	nonceHandler := nonce.NewHandler(nonceService)
	leaveHandler := leave.NewHandler(leaveService, in.Redis, logger)
	leaveExportHandler := leave.NewExportHandler(leave.NewExporter(leaveService, logger))
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService, logger)
	balanceHandler := balance.NewHandler(c.balances, c.users)
	contactHandler := contact.NewHandler(contactService)
	notificationHandler := notification.NewHandler(notificationService)
	linkHandler := approvaltoken.NewHandler(redeemer, cfg.Notifications.AdminDashboardURL, logger)

	// --- Routes Registration ---
	router.Use(middleware.RequestID(), middleware.ContextLogger(logger))

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, guard)
		user.RegisterRoutes(api, userHandler, guard)
		rbac.RegisterRoutes(api, rbacHandler, guard)
		nonce.RegisterRoutes(api, nonceHandler, guard)
		leave.RegisterRoutes(api, leaveHandler, guard)
		leave.RegisterExportRoutes(api, leaveExportHandler, guard)
		leavetype.RegisterRoutes(api, leaveTypeHandler, guard)
		balance.RegisterRoutes(api, balanceHandler, guard)
		contact.RegisterRoutes(api, contactHandler, guard)
		notification.RegisterRoutes(api, notificationHandler, guard)
	}

	// Email links are opened straight from a mail client, outside /api.
	approvaltoken.RegisterRoutes(router, linkHandler)

	return nil
}
