// Command devtoken mints identity tokens signed with the configured secret,
// for exercising the API without a running identity provider.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"mediaitor/internal/config"
	"mediaitor/internal/identity"
	"mediaitor/internal/pkg/jwtutil"
)

func main() {
	externalID := flag.String("sub", "", "external user id (required)")
	email := flag.String("email", "", "primary email address")
	firstName := flag.String("first", "", "first name")
	lastName := flag.String("last", "", "last name")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *externalID == "" {
		log.Fatal("-sub is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	id := identity.Identity{
		ExternalID: *externalID,
		FirstName:  *firstName,
		LastName:   *lastName,
	}
	if *email != "" {
		id.PrimaryEmailAddressID = "idn_" + *externalID
		id.EmailAddresses = []identity.EmailAddress{{ID: id.PrimaryEmailAddressID, EmailAddress: *email}}
	}

	token, err := jwtutil.GenerateToken(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, *ttl, id)
	if err != nil {
		log.Fatalf("generate token failed: %v", err)
	}
	fmt.Println(token)
}
