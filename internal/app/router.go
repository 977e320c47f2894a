package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/curriculum-api/api/swagger"
	"github.com/noah-isme/curriculum-api/internal/handler"
	internalmiddleware "github.com/noah-isme/curriculum-api/internal/middleware"
	"github.com/noah-isme/curriculum-api/pkg/config"
	"github.com/noah-isme/curriculum-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/curriculum-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/curriculum-api/pkg/middleware/requestid"
)

// NewRouter registers middleware and routes on a fresh gin engine.
func NewRouter(c *Container) *gin.Engine {
	if c.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(c.Logger))
	r.Use(corsmiddleware.New(c.Config.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(c.Metrics))
	r.MaxMultipartMemory = c.Config.Import.MaxFileSizeBytes

	var db handler.Pinger
	if c.DB != nil {
		db = c.DB
	}
	metricsHandler := handler.NewMetricsHandler(c.Metrics, db)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if c.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	courseHandler := handler.NewCourseHandler(c.Courses)
	planHandler := handler.NewPlanHandler(c.Plans, c.Exports)
	importHandler := handler.NewImportHandler(c.Imports)
	subjectHandler := handler.NewSubjectHandler(c.Subjects)

	api := r.Group(c.Config.APIPrefix)
	api.GET("/categories/catalog", courseHandler.Catalog)

	courses := api.Group("/courses")
	courses.POST("", courseHandler.Create)
	courses.GET("/:id/categories", courseHandler.Categories)
	courses.POST("/:id/categories", courseHandler.AppendCategories)

	plans := api.Group("/course-plans")
	plans.POST("", planHandler.Create)
	plans.PATCH("/:id/hide", planHandler.Hide)
	plans.GET("/:id/credits", planHandler.Credits)
	plans.GET("/:id/export", planHandler.Export)

	api.POST("/imports/subjects", importHandler.Subjects)

	api.PUT("/subjects/:id", subjectHandler.Update)
	api.POST("/subject-assignments", subjectHandler.Assign)
	api.DELETE("/subject-assignments/:id", subjectHandler.Unassign)

	prerequisites := api.Group("/prerequisites")
	prerequisites.POST("", subjectHandler.CreatePrerequisite)
	prerequisites.PUT("", subjectHandler.UpdatePrerequisite)
	prerequisites.DELETE("", subjectHandler.DeletePrerequisite)

	return r
}
