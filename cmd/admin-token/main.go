package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kull-platform/api/internal/model"
	"github.com/kull-platform/api/pkg/token"
)

func main() {
	// Flags for customization
	secret := flag.String("secret", os.Getenv("JWT_SECRET"), "HMAC signing secret (defaults to JWT_SECRET)")
	userID := flag.String("user", "user:superadmin", "User record id for the token subject")
	email := flag.String("email", "admin@kull.dev", "Email claim for the token")
	issuer := flag.String("issuer", "kull-platform", "Token issuer")
	expMins := flag.Int("exp", 60*24*7, "Token expiration in minutes (default: 7 days)")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "Error: signing secret is required (set JWT_SECRET or pass -secret)")
		os.Exit(1)
	}

	tokens, err := token.NewService(token.Config{
		Secret:         *secret,
		Issuer:         *issuer,
		ExpirationMins: *expMins,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating token service: %v\n", err)
		os.Exit(1)
	}

	// The subject must exist in the store with the superadmin role; the API
	// re-fetches the user on every request, so this tool only mints the
	// bearer credential.
	claims := token.Claims{
		Email: *email,
		Role:  model.RoleSuperAdmin,
	}
	claims.Subject = *userID

	signed, err := tokens.Sign(claims)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		output := map[string]any{
			"token":      signed,
			"token_type": "Bearer",
			"expires_in": *expMins * 60,
			"user_id":    *userID,
			"email":      *email,
			"role":       model.RoleSuperAdmin,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output)
	} else {
		expTime := time.Now().Add(time.Duration(*expMins) * time.Minute)
		fmt.Println("Super Admin Token Generated")
		fmt.Println("===========================")
		fmt.Printf("User ID:  %s\n", *userID)
		fmt.Printf("Email:    %s\n", *email)
		fmt.Printf("Role:     %s\n", model.RoleSuperAdmin)
		fmt.Printf("Expires:  %s\n", expTime.Format(time.RFC3339))
		fmt.Println()
		fmt.Println("Token:")
		fmt.Println(signed)
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost:8080/v1/communities\n", signed[:24]+"...")
	}
}
