package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"sneakershop/condb"
	"sneakershop/config"
	"sneakershop/routes"
	"sneakershop/services"
	"sneakershop/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if !cfg.IsDevelopment() {
		log.SetLevel(log.LevelInfo)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	stores, err := condb.Open(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Store connection failed: %v", err)
	}
	defer stores.Close()

	auth := services.NewAuthService(stores.Users, utils.NewJWT(cfg.JWTSecret, cfg.TokenTTL))
	catalog := services.NewCatalogService(stores.Products, services.NewDiskImageStore(cfg.UploadDir, "/uploads"))

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		created, err := auth.SeedAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			log.Fatalf("Admin seeding failed: %v", err)
		}
		if created {
			log.Infow("Admin user created", "email", cfg.AdminEmail)
		}
	}

	app := routes.NewApp(cfg, routes.Deps{Auth: auth, Catalog: catalog, UploadDir: cfg.UploadDir})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
	}
}
