package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/arnavshah/seating-api-go/pkg/auth"
	"github.com/arnavshah/seating-api-go/pkg/config"
)

func main() {
	config.LoadDotEnv()

	if len(os.Args) < 2 {
		fmt.Println("Usage: keygen <userID>")
		os.Exit(1)
	}

	userID := os.Args[1]
	if strings.Contains(userID, ".") {
		fmt.Println("Error: userID must not contain '.'")
		os.Exit(1)
	}

	secret := os.Getenv("API_MASTER_SECRET")
	if secret == "" {
		secret = os.Getenv("SEATING_AUTH_API_MASTER_SECRET")
	}
	if secret == "" {
		fmt.Println("Error: API_MASTER_SECRET not found in environment or .env")
		os.Exit(1)
	}

	m := auth.NewManager(config.AuthConfig{APIMasterSecret: secret})
	fmt.Printf("Generated Key for %s:\n%s\n", userID, m.GenerateHMACKey(userID))
}
