// Package router assembles the gin engine: ambient middleware, the /api route table and
// the operational endpoints.
package router

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/dojo-api/internal/handler"
	"github.com/noah-isme/dojo-api/internal/middleware"
	"github.com/noah-isme/dojo-api/internal/models"
	"github.com/noah-isme/dojo-api/internal/service"
	"github.com/noah-isme/dojo-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/dojo-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/dojo-api/pkg/middleware/requestid"
)

// AuditWriter persists audit entries for sensitive mutations.
type AuditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// Options controls environment dependent routing.
type Options struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
}

// Dependencies carries the services the routes are bound to. LoginLimiter and Checks
// are optional.
type Dependencies struct {
	Logger       *zap.Logger
	Metrics      *service.MetricsService
	SessionAuth  *middleware.SessionManager
	Audit        AuditWriter
	LoginLimiter *service.LoginLimiter
	Checks       map[string]handler.Pinger

	Auth       *service.AuthService
	Members    *service.MemberService
	Classes    *service.ClassService
	Sessions   *service.SessionService
	Attendance *service.AttendanceService
	Progress   *service.ProgressService
	Notes      *service.ProgressNoteService
	Techniques *service.TechniqueService
	Events     *service.EventService
	Reports    *service.ReportService
	Payments   *service.PaymentService
}

// New builds the HTTP engine.
func New(opts Options, deps Dependencies) *gin.Engine {
	binding.EnableDecoderDisallowUnknownFields = true

	logr := deps.Logger
	if logr == nil {
		logr = zap.NewNop()
	}
	prefix := opts.APIPrefix
	if prefix == "" {
		prefix = "/api"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	metricsHandler := handler.NewMetricsHandler(deps.Metrics, deps.Checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(deps.Auth, deps.SessionAuth)
	memberHandler := handler.NewMemberHandler(deps.Members)
	classHandler := handler.NewClassHandler(deps.Classes)
	sessionHandler := handler.NewSessionHandler(deps.Sessions)
	attendanceHandler := handler.NewAttendanceHandler(deps.Attendance)
	progressHandler := handler.NewProgressHandler(deps.Progress, deps.Notes)
	techniqueHandler := handler.NewTechniqueHandler(deps.Techniques)
	eventHandler := handler.NewEventHandler(deps.Events)
	reportHandler := handler.NewReportHandler(deps.Reports)
	paymentHandler := handler.NewPaymentHandler(deps.Payments)

	api := r.Group(prefix)

	login := []gin.HandlerFunc{}
	if deps.LoginLimiter != nil {
		login = append(login, middleware.LoginRateLimit(deps.LoginLimiter))
	}
	api.POST("/register", authHandler.Register)
	api.POST("/login", append(login, authHandler.Login)...)
	api.POST("/logout", authHandler.Logout)

	authed := api.Group("")
	authed.Use(middleware.Authenticate(deps.Auth, deps.SessionAuth))
	staff := middleware.RequireStaff()
	audit := func(action string) gin.HandlerFunc {
		return middleware.Audit(deps.Audit, logr, action, "member")
	}

	authed.GET("/user", authHandler.User)
	authed.POST("/become-admin", authHandler.BecomeAdmin)

	members := authed.Group("/members")
	{
		members.GET("", memberHandler.List)
		members.GET("/:id", memberHandler.Get)
		members.GET("/:id/progress", progressHandler.ListNotes)
		members.GET("/:id/attendance", middleware.SelfOrStaff(), attendanceHandler.History)
		members.POST("", staff, audit(models.AuditActionMemberCreate), memberHandler.Create)
		members.PUT("/:id", staff, audit(models.AuditActionMemberUpdate), memberHandler.Update)
		members.DELETE("/:id", staff, audit(models.AuditActionMemberDelete), memberHandler.Delete)
	}

	authed.POST("/progress-notes", staff, progressHandler.CreateNote)
	authed.PUT("/progress-notes/:id", staff, progressHandler.UpdateNote)
	authed.DELETE("/progress-notes/:id", staff, progressHandler.DeleteNote)

	classes := authed.Group("/classes")
	{
		classes.GET("", classHandler.List)
		classes.GET("/:id", classHandler.Get)
		classes.GET("/:id/sessions", sessionHandler.ListByClass)
		classes.POST("", staff, classHandler.Create)
		classes.POST("/:id/sessions", staff, sessionHandler.CreateForClass)
		classes.PUT("/:id", staff, classHandler.Update)
		classes.DELETE("/:id", staff, middleware.Audit(deps.Audit, logr, models.AuditActionClassDelete, "class"), classHandler.Delete)
	}

	sessions := authed.Group("/sessions")
	{
		sessions.GET("", sessionHandler.List)
		sessions.GET("/:id", sessionHandler.Get)
		sessions.GET("/:id/attendance", staff, attendanceHandler.ListBySession)
		sessions.POST("", staff, sessionHandler.Create)
		sessions.PUT("/:id", staff, sessionHandler.Update)
		sessions.DELETE("/:id", staff, sessionHandler.Delete)
	}

	authed.POST("/attendance", staff, attendanceHandler.Create)
	authed.PUT("/attendance/:id", staff, attendanceHandler.Update)
	authed.DELETE("/attendance/:id", staff, attendanceHandler.Delete)

	authed.GET("/students/:id/progress", middleware.SelfOrStaff(), progressHandler.GetByStudent)
	authed.POST("/progress", staff, progressHandler.Create)
	authed.PUT("/progress/:id", staff, progressHandler.Update)

	techniques := authed.Group("/techniques")
	{
		techniques.GET("", techniqueHandler.List)
		techniques.GET("/category/:category", techniqueHandler.ListByCategory)
		techniques.GET("/belt/:beltLevel", techniqueHandler.ListByBelt)
		techniques.GET("/:id", techniqueHandler.Get)
		techniques.POST("", staff, techniqueHandler.Create)
		techniques.PUT("/:id", staff, techniqueHandler.Update)
		techniques.DELETE("/:id", staff, techniqueHandler.Delete)
	}

	events := authed.Group("/events")
	{
		events.GET("", eventHandler.List)
		events.GET("/:id", eventHandler.Get)
		events.POST("", staff, eventHandler.Create)
		events.PUT("/:id", staff, eventHandler.Update)
		events.DELETE("/:id", staff, eventHandler.Delete)
	}

	reports := authed.Group("/reports", staff)
	{
		reports.GET("/summary", reportHandler.Summary)
		reports.GET("/attendance", reportHandler.Attendance)
		reports.GET("/attendance/export", reportHandler.ExportAttendance)
	}

	authed.POST("/create-payment-intent", paymentHandler.CreatePaymentIntent)
	authed.POST("/create-subscription", paymentHandler.CreateSubscription)
	authed.GET("/payment-methods", paymentHandler.PaymentMethods)
	authed.GET("/subscription", paymentHandler.Subscription)

	return r
}
