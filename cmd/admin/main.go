// Package main provides admin account utilities for streamsite.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"streamsite/internal/bootstrap"
	"streamsite/internal/config"
	"streamsite/internal/repository"
	"streamsite/internal/service"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin list-admins                            - List admin accounts")
	fmt.Println("  go run ./cmd/admin ensure                                 - Create the configured admin if missing")
	fmt.Println("  go run ./cmd/admin reset-password <new-password> [user]   - Replace an admin password")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer rt.Close()

	auth := service.NewAuthService(rt.Repos.Users, cfg.AdminUsername)

	switch os.Args[1] {
	case "list-admins":
		listAdmins(ctx, rt.Repos.Users)

	case "ensure":
		user, err := auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			log.Fatalf("Failed to ensure admin: %v", err)
		}
		fmt.Printf("Admin %s (ID: %d) is present\n", user.Username, user.ID)

	case "reset-password":
		if len(os.Args) < 3 {
			usage()
			os.Exit(1)
		}
		username := cfg.AdminUsername
		if len(os.Args) > 3 {
			username = os.Args[3]
		}
		resetPassword(ctx, rt.Repos.Users, auth, username, os.Args[2])

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func listAdmins(ctx context.Context, users repository.UserRepository) {
	admins, err := users.ListAdmins(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}
	if len(admins) == 0 {
		fmt.Println("No admins found")
		return
	}
	for _, u := range admins {
		fmt.Printf("%d\t%s\n", u.ID, u.Username)
	}
}

func resetPassword(ctx context.Context, users repository.UserRepository, auth *service.AuthService, username, password string) {
	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", username, err)
	}
	if !user.IsAdmin {
		log.Fatalf("%s is not an admin", username)
	}
	if err := auth.ChangePassword(ctx, user.ID, "", password); err != nil {
		log.Fatalf("Failed to reset password: %v", err)
	}
	fmt.Printf("Password reset for %s (ID: %d)\n", user.Username, user.ID)
}
