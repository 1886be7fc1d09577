package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/Cedhu-Sog/IT-CEDHU/cmd"
	"github.com/Cedhu-Sog/IT-CEDHU/internal/core/container"
	"github.com/Cedhu-Sog/IT-CEDHU/internal/core/routes"
	"github.com/Cedhu-Sog/IT-CEDHU/internal/database"
	"github.com/Cedhu-Sog/IT-CEDHU/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	if err := database.RunMigrations(dbURL, migrationsDir()); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	appContainer := container.NewAppContainer(db)

	router := gin.New()
	router.Use(gin.Logger(), middleware.RecoveryMiddleware())

	// Forwarded-for headers are honoured only from proxies listed here.
	if err := router.SetTrustedProxies(trustedProxies()); err != nil {
		log.Fatalf("Invalid TRUSTED_PROXIES value: %v", err)
	}

	routes.RegisterUtilityRoutes(router)
	routes.RegisterPublicRoutes(router, appContainer)
	routes.RegisterProtectedRoutes(router, appContainer)

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}

func trustedProxies() []string {
	raw := os.Getenv("TRUSTED_PROXIES")
	if raw == "" {
		return nil
	}

	proxies := strings.Split(raw, ",")
	for i := range proxies {
		proxies[i] = strings.TrimSpace(proxies[i])
	}
	return proxies
}

func migrationsDir() string {
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	return "migrations"
}
