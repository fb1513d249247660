package main

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/your-org/commerce-analytics/internal/config"
	"github.com/your-org/commerce-analytics/internal/domain/user"
	"github.com/your-org/commerce-analytics/internal/pkg/auth"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run scripts/generate_token.go <email> <admin|manager>")
	}

	email := os.Args[1]
	role := user.Role(os.Args[2])
	if role != user.RoleAdmin && role != user.RoleManager {
		log.Fatalf("Role must be admin or manager, got %q", role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration:", err)
	}

	token, err := auth.NewJWTManager(cfg).GenerateAccessToken(uuid.NewString(), email, role)
	if err != nil {
		log.Fatal("Error generating token:", err)
	}

	fmt.Printf("Email: %s\n", email)
	fmt.Printf("Role: %s\n", role)
	fmt.Printf("Expires in: %s\n", cfg.JWT.AccessTokenExpiry)
	fmt.Printf("Token: %s\n", token)
}
