// Command createadmin seeds an admin account. It is safe to run more than
// once.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"sneakershop/condb"
	"sneakershop/config"
	"sneakershop/services"
	"sneakershop/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	email := flag.String("email", cfg.AdminEmail, "admin email (defaults to ADMIN_EMAIL)")
	password := flag.String("password", cfg.AdminPassword, "admin password (defaults to ADMIN_PASSWORD)")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("An admin email and password are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stores, err := condb.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Store connection failed: %v", err)
	}
	defer stores.Close()

	auth := services.NewAuthService(stores.Users, utils.NewJWT(cfg.JWTSecret, cfg.TokenTTL))
	created, err := auth.SeedAdmin(ctx, *email, *password)
	if err != nil {
		log.Fatalf("Admin seeding failed: %v", err)
	}
	if created {
		log.Infow("Admin user created", "email", *email)
		return
	}
	log.Infow("Admin user already exists", "email", *email)
}
