package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/frago0312/fg-ripetizioni/internal/api"
	"github.com/frago0312/fg-ripetizioni/internal/auth"
	"github.com/frago0312/fg-ripetizioni/internal/availability"
	"github.com/frago0312/fg-ripetizioni/internal/closure"
	"github.com/frago0312/fg-ripetizioni/internal/lesson"
	"github.com/frago0312/fg-ripetizioni/internal/notify"
	"github.com/frago0312/fg-ripetizioni/internal/student"
	"github.com/frago0312/fg-ripetizioni/internal/tariff"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Logger       *zap.Logger
	Zone         *time.Location
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int

	// Notifier may be nil; a log-backed gateway is used then.
	Notifier notify.Notifier
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier(cfg.Logger)
	}

	// Student module
	studentRepo := student.NewPgxRepository(cfg.DBPool)
	studentService := student.NewService(studentRepo, passwordHasher)

	// Weekly availability module
	availRepo := availability.NewPgxRepository(cfg.DBPool)
	availService := availability.NewService(availRepo)

	// Closure calendar module
	closureRepo := closure.NewPgxRepository(cfg.DBPool)
	closureService := closure.NewService(closureRepo)

	// Tariff module
	tariffRepo := tariff.NewPgxRepository(cfg.DBPool)
	tariffService := tariff.NewService(tariffRepo)

	// Lesson module (booking ledger + slot resolver)
	lessonRepo := lesson.NewPgxRepository(cfg.DBPool)
	lessonService := lesson.NewService(
		lessonRepo, studentService, availService, closureService, tariffService,
		notifier, cfg.Logger, cfg.Zone,
	)

	router := api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		Zone:                cfg.Zone,
		StudentService:      studentService,
		AvailabilityService: availService,
		ClosureService:      closureService,
		TariffService:       tariffService,
		LessonService:       lessonService,
		JWTManager:          jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}
