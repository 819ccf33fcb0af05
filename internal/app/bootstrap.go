package app

import (
	"context"
	"fmt"
	"strings"

	"hirehub/internal/config"
	"hirehub/internal/delivery/http/handler"
	"hirehub/internal/delivery/http/middleware"
	"hirehub/internal/delivery/http/routes"
	v1 "hirehub/internal/delivery/http/routes/v1"
	"hirehub/internal/infrastructure/persistence/postgres"
	"hirehub/internal/infrastructure/storage"
	"hirehub/internal/pkg/jwt"
	"hirehub/internal/pkg/validation"
	"hirehub/internal/repository"
	"hirehub/internal/usecase"
	companyuc "hirehub/internal/usecase/company"
	jobuc "hirehub/internal/usecase/job"
	useruc "hirehub/internal/usecase/user"
	"hirehub/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(cfg config.Config, c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:         cfg.App.AppName,
		BodyLimit:       cfg.App.BodyLimitMB * 1024 * 1024,
		StructValidator: validation.New(),
	})

	registerGlobalMiddleware(f, c)
	registerStatic(f, c.Files)
	routes.Register(f, buildHandlers(cfg, c))

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the container and starts the notification hub. The returned cleanup
// stops the hub and closes every connection pool.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)

	app := New(cfg, c)
	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return app, cleanup, nil
}

func buildHandlers(cfg config.Config, c *Container) v1.Handlers {
	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	userRepo := postgres.NewUserRepository(c.DB)
	companyRepo := postgres.NewCompanyRepository(c.DB)
	jobRepo := repository.NewPostgresJobRepository(c.DB)

	authUC := usecase.NewAuthUsecase(userRepo, companyRepo, jwtSvc)
	jobUC := jobuc.NewService(jobRepo, companyRepo, c.Files, c.Cache, c.Hub, c.Logger)
	userUC := useruc.NewService(userRepo, jobRepo)
	companyUC := companyuc.NewService(companyRepo, jobUC)

	return v1.Handlers{
		Auth:           handler.NewAuthHandler(authUC),
		Jobs:           handler.NewJobsHandler(jobUC, authMw.Middleware()),
		Users:          handler.NewUserHandler(userUC),
		Companies:      handler.NewCompanyHandler(companyUC),
		Health:         handler.NewHealthHandler(c.DB, c.Cache, c.Hub),
		WS:             ws.NewHandler(c.Hub, jwtSvc, c.Logger),
		AuthMiddleware: authMw.Middleware(),
		AuthRateLimit:  middleware.NewRateLimiter(cfg.App.AuthRatePerMinute, cfg.App.AuthRateBurst, c.Logger).Middleware(),
	}
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	accessMw := middleware.NewAccessLogMiddleware(c.Logger, routes.HealthPaths...)
	app.Use(accessMw.Middleware())

	errMw := middleware.NewErrorMiddleware(c.Logger, !c.Config.App.IsProduction())
	app.Use(errMw.Middleware())
}

// registerStatic serves uploaded CVs when they live on local disk. Spaces URLs are served by the bucket.
func registerStatic(app *fiber.App, files storage.FileStore) {
	local, ok := files.(*storage.Local)
	if !ok {
		return
	}
	app.Use("/"+UploadURLPrefix, static.New(local.Dir()))
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
