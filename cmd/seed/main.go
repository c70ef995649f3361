// Command seed bootstraps the first admin account. It ensures the "admin"
// role exists, creates the user named by ADMIN_USERNAME / ADMIN_EMAIL /
// ADMIN_PASSWORD (reusing the existing row when the email is already
// registered) and assigns the role. Safe to run repeatedly.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/shoplite/shoplite/internal/config"
	"github.com/shoplite/shoplite/internal/database"
	"github.com/shoplite/shoplite/internal/repository"
	"github.com/shoplite/shoplite/internal/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	username := os.Getenv("ADMIN_USERNAME")
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || email == "" || password == "" {
		log.Fatal("ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	users := repository.NewUserRepo(db)
	roles := repository.NewRoleRepo(db)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	hash, err := utils.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	u, err := users.Create(ctx, username, email, hash)
	if err != nil {
		if !errors.Is(err, repository.ErrEmailExists) && !errors.Is(err, repository.ErrUsernameExists) {
			log.Fatalf("create admin user: %v", err)
		}
		u, err = users.GetByEmail(ctx, email)
		if err != nil {
			log.Fatalf("load existing admin user: %v", err)
		}
		log.Printf("user %s already exists, reusing", u.ID)
	}

	if _, err := roles.AssignRole(ctx, u.ID, "admin"); err != nil {
		log.Fatalf("assign admin role: %v", err)
	}
	if _, err := roles.AssignRole(ctx, u.ID, "user"); err != nil {
		log.Fatalf("assign user role: %v", err)
	}

	log.Printf("admin ready: id=%s username=%s", u.ID, u.Username)
}
