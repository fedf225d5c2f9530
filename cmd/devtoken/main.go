// Command devtoken prints an access token for local testing, signed with
// JWT_SECRET from the environment (or .env).
//
//	go run ./cmd/devtoken -user org-1 -role ORGANIZER
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/seatmap-console/internal/config"
	"github.com/iliyamo/seatmap-console/internal/utils"
)

func main() {
	user := flag.String("user", "dev-organizer", "token subject")
	role := flag.String("role", utils.RoleOrganizer, "ORGANIZER or ADMIN")
	flag.Parse()

	cfg := config.Load()
	tok, err := utils.NewAccessToken(cfg.JWTSecret, *user, *role, time.Duration(cfg.AccessTTLMin)*time.Minute)
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	fmt.Println(tok.Token)
	log.Printf("expires %s", tok.Exp.Format(time.RFC3339))
}
