package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/frago0312/fg-ripetizioni/internal/auth"
	"github.com/frago0312/fg-ripetizioni/internal/availability"
	availHttp "github.com/frago0312/fg-ripetizioni/internal/availability/http"
	"github.com/frago0312/fg-ripetizioni/internal/closure"
	closureHttp "github.com/frago0312/fg-ripetizioni/internal/closure/http"
	"github.com/frago0312/fg-ripetizioni/internal/lesson"
	lessonHttp "github.com/frago0312/fg-ripetizioni/internal/lesson/http"
	"github.com/frago0312/fg-ripetizioni/internal/student"
	"github.com/frago0312/fg-ripetizioni/internal/tariff"
	tariffHttp "github.com/frago0312/fg-ripetizioni/internal/tariff/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Zone         *time.Location

	StudentService      student.Service
	AvailabilityService availability.Service
	ClosureService      closure.Service
	TariffService       tariff.Service
	LessonService       lesson.Service

	JWTManager *auth.JWTManager
}

// NewRouter assembles middleware (CORS, Logger, Auth) and registers the
// routes of every module under /v1.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	tutorMiddleware := RequireTutor(cfg.StudentService)

	authHandler := NewAuthHandler(cfg.StudentService, cfg.JWTManager)
	availHandler := availHttp.NewHandler(cfg.AvailabilityService)
	closureHandler := closureHttp.NewHandler(cfg.ClosureService, cfg.Zone)
	tariffHandler := tariffHttp.NewHandler(cfg.TariffService)
	lessonHandler := lessonHttp.NewHandler(
		cfg.LessonService, cfg.StudentService, cfg.ClosureService, cfg.AvailabilityService, cfg.Zone,
	)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		me := v1.Group("/me")
		me.Use(authMiddleware)
		{
			me.GET("", authHandler.Me)
			me.GET("/profile", authHandler.GetProfile)
			me.PUT("/profile", authHandler.UpdateProfile)
		}

		availHttp.RegisterRoutes(v1, availHandler, authMiddleware, tutorMiddleware)
		closureHttp.RegisterRoutes(v1, closureHandler, authMiddleware, tutorMiddleware)
		tariffHttp.RegisterRoutes(v1, tariffHandler, authMiddleware, tutorMiddleware)
		lessonHttp.RegisterRoutes(v1, lessonHandler, authMiddleware, tutorMiddleware)
	}

	return r
}
