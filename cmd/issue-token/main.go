// Command issue-token prints a signed access token for a user id, for local
// development and smoke tests against the API. It uses the same auth
// settings as the server.
//
// Usage: issue-token [-user <uuid>]   (default: a new random uuid)
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/heartmarshall/novelnest-inventory/internal/auth"
	"github.com/heartmarshall/novelnest-inventory/internal/config"
)

func main() {
	user := flag.String("user", "", "user id to use as the token subject")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	userID := uuid.New()
	if *user != "" {
		if userID, err = uuid.Parse(*user); err != nil {
			log.Fatalf("invalid -user: %v", err)
		}
	}

	token, err := auth.NewJWTManager(cfg.Auth).GenerateAccessToken(userID)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	fmt.Printf("user_id: %s\ntoken:   %s\n", userID, token)
}
