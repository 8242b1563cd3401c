package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/memory/v2"
	redisstorage "github.com/gofiber/storage/redis/v3"
	"github.com/urfave/cli/v2"
	"gopkg.in/gomail.v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/alshahriar/gymfit/config"
	"github.com/alshahriar/gymfit/internal/auth"
	"github.com/alshahriar/gymfit/internal/handlers"
	"github.com/alshahriar/gymfit/internal/mail"
	"github.com/alshahriar/gymfit/internal/members"
	"github.com/alshahriar/gymfit/internal/middlewares"
	"github.com/alshahriar/gymfit/internal/middlewares/sessions"
	"github.com/alshahriar/gymfit/internal/render"
	"github.com/alshahriar/gymfit/internal/storage"
	"github.com/alshahriar/gymfit/model"
	"github.com/alshahriar/gymfit/params"
)

var (
	app       *cli.App
	gitCommit string
	gitDate   string
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "YAML config file",
		Value: "config.yaml",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
)

func init() {
	app = cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = "Gym membership administration service"
	app.Flags = []cli.Flag{
		configFileFlag,
		debugFlag,
	}
	app.Commands = []*cli.Command{
		{
			Name: "version",
			Action: func(ctx *cli.Context) error {
				fmt.Println(params.VersionWithCommit(gitCommit, gitDate))
				return nil
			},
		},
	}
	app.Action = run
}

func initLogger(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func mustInitDatabase(cfg *config.MysqlConfig) *gorm.DB {
	db, err := gorm.Open(mysql.Open(cfg.ConnStr), &gorm.Config{TranslateError: true})
	if err != nil {
		slog.Error("Could not connect to database", "error", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Could not configure database pool", "error", err)
		os.Exit(1)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}
	if err := db.AutoMigrate(model.Models...); err != nil {
		slog.Error("Could not migrate database schema", "error", err)
		os.Exit(1)
	}
	return db
}

func newSessionStore(cfg *config.Config) *session.Store {
	var store fiber.Storage
	if cfg.Redis.URL != "" {
		store = redisstorage.New(redisstorage.Config{URL: cfg.Redis.URL})
	} else {
		store = memory.New()
	}
	return session.New(session.Config{
		Storage:        store,
		Expiration:     params.SessionExpiration,
		KeyLookup:      "cookie:gymfit_session",
		CookieHTTPOnly: true,
		KeyGenerator:   sessions.GenerateSessionID,
	})
}

func registerRoutes(router *fiber.App, cfg *config.Config, memberService *members.Service,
	authService *auth.AuthenticateService, resetService *auth.ResetService) {
	siteHandler := handlers.NewSiteHandler(memberService)
	authHandler := handlers.NewAuthHandler(authService)
	registerHandler := handlers.NewRegisterHandler(memberService)
	adminHandler := handlers.NewAdminHandler(memberService)
	resetHandler := handlers.NewResetPasswordHandler(resetService, cfg.BaseURL)
	apiHandler := handlers.NewMemberAPIHandler(memberService)

	router.Get("/", siteHandler.GetIndex)
	router.Get("/login", authHandler.GetLogin)
	router.Post("/login", authHandler.PostLogin)
	router.Get("/logout", authHandler.GetLogout)
	router.Get("/register", registerHandler.GetRegister)
	router.Post("/register", registerHandler.PostRegister)
	router.Get("/register-success", registerHandler.GetRegisterSuccess)
	router.Get("/forgot-password", resetHandler.GetForgotPassword)
	router.Post("/forgot-password", resetHandler.PostForgotPassword)
	router.Get("/reset-password/:token", resetHandler.GetResetPassword)
	router.Post("/reset-password/:token", resetHandler.PostResetPassword)

	loggedIn := router.Group("", middlewares.RequireLogin)
	loggedIn.Get("/dashboard", siteHandler.GetDashboard)
	loggedIn.Get("/members", siteHandler.GetMembers)
	loggedIn.Get("/trainers", siteHandler.GetTrainers)
	loggedIn.Get("/classes", siteHandler.GetClasses)
	loggedIn.Get("/change-password", authHandler.GetChangePassword)
	loggedIn.Post("/change-password", authHandler.PostChangePassword)

	admin := router.Group("", middlewares.RequireLogin, middlewares.RequireAdmin)
	admin.Get("/pending-registrations", adminHandler.GetPendingRegistrations)
	admin.Get("/approve-registration/:id", adminHandler.GetApproveRegistration)
	admin.Get("/reject-registration/:id", adminHandler.GetRejectRegistration)
	admin.Get("/edit-member/:id", adminHandler.GetEditMember)
	admin.Post("/edit-member/:id", adminHandler.PostEditMember)
	admin.Get("/delete-member/:id", adminHandler.GetDeleteMember)

	// The member API authenticates in-handler so unauthenticated callers
	// get a JSON 401 instead of the login redirect.
	router.Get("/api/member/:id", apiHandler.GetMember)

	router.Use(func(ctx *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}

func run(ctx *cli.Context) error {
	cfg, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		slog.Error("Could not load config file.", "error", err)
		return err
	}
	initLogger(cfg.Debug || ctx.IsSet(debugFlag.Name))

	db := mustInitDatabase(&cfg.Mysql)
	store := storage.NewGormStore(db)

	dialer := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	mailSender := mail.NewSMTPMailSender(dialer, cfg.SMTP.Sender)

	memberService := members.NewService(store, mailSender)
	authService := auth.NewAuthenticateService(store)
	resetService := auth.NewResetService(store, mailSender)

	if cfg.Admin.Username != "" {
		err := authService.EnsureAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Email,
			cfg.Admin.Password, cfg.Admin.DisplayName)
		if err != nil {
			slog.Error("Could not seed admin account", "error", err)
			return err
		}
	}

	render.InitValues(fiber.Map{
		"siteName": cfg.SiteName,
		"baseURL":  cfg.BaseURL,
	})

	router := fiber.New(fiber.Config{
		Views:        render.NewHtmlEngine(cfg.TemplateDir),
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    params.ServerBodyLimit,
		IdleTimeout:  params.ServerIdleTimeout,
		ReadTimeout:  params.ServerReadTimeout,
		WriteTimeout: params.ServerWriteTimeout,
	})
	router.Static("/static", cfg.StaticDir)
	router.Use(sessions.SessionMiddleware(newSessionStore(cfg)))
	registerRoutes(router, cfg, memberService, authService, resetService)

	slog.Info("Starting server", "address", cfg.ListenAddr)
	return router.Listen(cfg.ListenAddr)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
