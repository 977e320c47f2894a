// Package app wires configuration, stores and services into a runnable application.
package app

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/curriculum-api/internal/repository"
	"github.com/noah-isme/curriculum-api/internal/service"
	"github.com/noah-isme/curriculum-api/pkg/cache"
	"github.com/noah-isme/curriculum-api/pkg/config"
	"github.com/noah-isme/curriculum-api/pkg/database"
	"github.com/noah-isme/curriculum-api/pkg/export"
)

// Container holds the shared dependencies of the API server and the CLI.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	DB      *sqlx.DB
	Redis   *redis.Client
	Metrics *service.MetricsService

	Courses  *service.CourseService
	Plans    *service.PlanService
	Imports  *service.ImportService
	Exports  *service.ExportService
	Subjects *service.SubjectService
}

// Build opens the database, optionally Redis, and constructs every service.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, caching disabled", zap.Error(err))
			redisClient = nil
		}
	}

	return newContainer(cfg, logger, db, redisClient), nil
}

func newContainer(cfg *config.Config, logger *zap.Logger, db *sqlx.DB, redisClient *redis.Client) *Container {
	metrics := service.NewMetricsService()
	validate := validator.New()

	courseRepo := repository.NewCourseRepository(db)
	planRepo := repository.NewCoursePlanRepository(db)
	categoryRepo := repository.NewSubjectCategoryRepository(db)
	requirementRepo := repository.NewCreditRequirementRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	assignmentRepo := repository.NewSubjectAssignmentRepository(db)

	cacheSvc := service.NewCacheService(
		repository.NewCacheRepository(redisClient, logger),
		metrics,
		cfg.Cache.TTL,
		logger.Named("cache"),
		cfg.Cache.Enabled && redisClient != nil,
	)
	tx := service.NewTransactionCoordinator(db, metrics, logger.Named("tx"))

	return &Container{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Redis:   redisClient,
		Metrics: metrics,
		Courses: service.NewCourseService(tx, courseRepo, categoryRepo, cacheSvc, validate, logger.Named("courses")),
		Plans: service.NewPlanService(tx, service.PlanRepositories{
			Courses:      courseRepo,
			Categories:   categoryRepo,
			Plans:        planRepo,
			Requirements: requirementRepo,
		}, cacheSvc, validate, logger.Named("plans")),
		Imports: service.NewImportService(tx, tx, service.ImportRepositories{
			Courses:     courseRepo,
			Plans:       planRepo,
			Categories:  categoryRepo,
			Subjects:    subjectRepo,
			Assignments: assignmentRepo,
		}, metrics, logger.Named("import"), service.ImportOptions{
			MaxFileSizeBytes:  cfg.Import.MaxFileSizeBytes,
			AllowedExtensions: cfg.Import.AllowedExtensions,
			AdvisoryLock:      cfg.Import.AdvisoryLock,
		}),
		Exports: service.NewExportService(planRepo, assignmentRepo,
			export.NewCSVExporter(), export.NewPDFExporter(cfg.Export.PDFFontPath),
			logger.Named("export"), cfg.Export.Enabled),
		Subjects: service.NewSubjectService(tx, service.SubjectRepositories{
			Subjects:      subjectRepo,
			Plans:         planRepo,
			Assignments:   assignmentRepo,
			Prerequisites: repository.NewPrerequisiteRepository(db),
		}, validate, logger.Named("subjects")),
	}
}

// Close releases the database and Redis connections.
func (c *Container) Close() error {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
