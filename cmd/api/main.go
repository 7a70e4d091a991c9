package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hakrNJN/user-management-service-sub001/application/ports"
	"github.com/hakrNJN/user-management-service-sub001/application/services"
	"github.com/hakrNJN/user-management-service-sub001/infrastructure/config"
	"github.com/hakrNJN/user-management-service-sub001/infrastructure/identity/cognito"
	"github.com/hakrNJN/user-management-service-sub001/infrastructure/messaging/eventbridge"
	"github.com/hakrNJN/user-management-service-sub001/infrastructure/persistence/dynamodb"
	"github.com/hakrNJN/user-management-service-sub001/interfaces/http/rest"
	"github.com/hakrNJN/user-management-service-sub001/pkg/auth"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	level := zap.NewAtomicLevelAt(parseLogLevel(cfg.LogLevel))
	logger, err := newLogger(cfg, level)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Runtime-tunable limits. Without an overrides file the defaults apply
	// for the lifetime of the process.
	var limits ports.LimitsProvider = ports.DefaultLimits()
	if cfg.DynamicConfigPath != "" {
		watcher, err := config.NewWatcher(cfg.DynamicConfigPath, logger)
		if err != nil {
			logger.Fatal("failed to start config watcher", zap.Error(err))
		}
		watcher.OnChange(func(dynamic *config.DynamicConfig) {
			level.SetLevel(parseLogLevel(dynamic.LogLevel))
		})
		watcher.Start()
		defer watcher.Stop()
		limits = watcherLimits{watcher: watcher}
		level.SetLevel(parseLogLevel(watcher.Current().LogLevel))
	}

	dynamoClient, err := dynamodb.NewClient(ctx, cfg.AWSRegion)
	if err != nil {
		logger.Fatal("failed to create dynamodb client", zap.Error(err))
	}
	cognitoClient, err := cognito.NewClient(ctx, cfg.AWSRegion)
	if err != nil {
		logger.Fatal("failed to create cognito client", zap.Error(err))
	}

	var publisher ports.EventPublisher
	if cfg.EnableEvents {
		busClient, err := eventbridge.NewClient(ctx, cfg.AWSRegion)
		if err != nil {
			logger.Fatal("failed to create eventbridge client", zap.Error(err))
		}
		publisher = eventbridge.NewPublisher(busClient, cfg.EventBusName, logger)
	}

	store := dynamodb.NewRelationshipStore(dynamoClient, cfg.DynamoDBTable, cfg.ReverseIndexName, logger)
	assignments := dynamodb.NewAssignmentRepository(store, logger)
	roleRepo := dynamodb.NewRoleRepository(dynamoClient, cfg.DynamoDBTable, cfg.EntityIndexName, logger)
	permissionRepo := dynamodb.NewPermissionRepository(dynamoClient, cfg.DynamoDBTable, cfg.EntityIndexName, logger)
	policyRepo := dynamodb.NewPolicyRepository(dynamoClient, cfg.DynamoDBTable, logger)
	idp := cognito.NewAdapter(cognitoClient, cfg.UserPoolID, logger)

	userService := services.NewUserAdminService(idp, roleRepo, permissionRepo, assignments, publisher, limits, logger)
	groupService := services.NewGroupService(idp, roleRepo, assignments, publisher, limits, logger)
	roleService := services.NewRoleService(roleRepo, permissionRepo, assignments, publisher, limits, logger)
	permissionService := services.NewPermissionService(permissionRepo, assignments, publisher, limits, logger)
	policyService := services.NewPolicyService(policyRepo, publisher, limits, logger)

	jwtConfig := auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	}
	if cfg.JWTAudience != "" {
		jwtConfig.Audience = []string{cfg.JWTAudience}
	}
	validator, err := auth.NewJWTValidator(jwtConfig)
	if err != nil {
		logger.Fatal("failed to create token validator", zap.Error(err))
	}

	router := rest.NewRouter(
		userService,
		groupService,
		roleService,
		permissionService,
		policyService,
		validator,
		cfg,
		logger,
	)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
}

func newLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level
	return zapCfg.Build()
}

func parseLogLevel(raw string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// watcherLimits adapts the config watcher to the limits port so services
// always read the latest reloaded values.
type watcherLimits struct {
	watcher *config.Watcher
}

func (w watcherLimits) CurrentLimits() ports.Limits {
	current := w.watcher.Current().Limits
	return ports.Limits{
		MaxCascadeEdges:    current.MaxCascadeEdges,
		MaxPolicySizeBytes: current.MaxPolicySizeBytes,
	}
}
