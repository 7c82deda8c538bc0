package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"league-management-system/handlers"
	"league-management-system/middleware"
	"league-management-system/models"
	"league-management-system/services"
	"league-management-system/utils"
	"league-management-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB — crest and photo uploads only
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	// TranslateError maps unique-index violations to gorm.ErrDuplicatedKey,
	// which the services surface as 409s
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Sport{},
		&models.Team{},
		&models.Player{},
		&models.Tournament{},
		&models.Enrollment{},
		&models.Match{},
		&models.MatchStatistic{},
		&models.LeagueUser{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// Object storage is optional: without it, crests and photos land on
	// local disk and are served from /uploads
	if err := utils.InitStorage(); err != nil {
		log.Printf("⚠️  Object storage not configured (%v), falling back to local uploads", err)
	}
	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	sportService := services.NewSportService(db)
	teamService := services.NewTeamService(db)
	playerService := services.NewPlayerService(db)
	tournamentService := services.NewTournamentService(db)
	enrollmentService := services.NewEnrollmentService(db)
	matchService := services.NewMatchService(db)
	statsService := services.NewStatsService(db)

	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	if authServiceURL == "" {
		log.Fatal("AUTH_SERVICE_URL environment variable not set")
	}
	leagueServiceToken := os.Getenv("LEAGUE_SERVICE_TOKEN")
	if leagueServiceToken == "" {
		log.Fatal("LEAGUE_SERVICE_TOKEN environment variable not set")
	}
	authClient := services.NewAuthServiceClient(authServiceURL, leagueServiceToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncServiceURL := os.Getenv("SYNC_SERVICE_URL")
	if syncServiceURL == "" {
		log.Fatal("SYNC_SERVICE_URL environment variable not set")
	}
	userSyncWorker := workers.NewLeagueUserSyncWorker(db, syncServiceURL, "/api/v1/public/profiles", leagueServiceToken)
	userSyncWorker.Start(ctx)

	paymentSyncClient := workers.NewPaymentSyncClient(db)
	go workers.PollPayments(ctx, paymentSyncClient, 30*time.Second)

	tournamentService.StartStatusScheduler()

	handlers.SetupSportRoutes(app, sportService)
	handlers.SetupTeamRoutes(app, teamService, playerService)
	handlers.SetupTournamentRoutes(app, tournamentService, enrollmentService)
	handlers.SetupMatchRoutes(app, matchService, statsService, authClient)

	app.Static("/uploads", "./uploads")

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ League User Sync Worker running")
	log.Println("✅ Payment settlement polling running (every 30s)")
	log.Println("✅ Tournament status scheduler running (every 1m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
