// cmd/hashpass/main.go
//
// Prints a bcrypt hash for seeding accounts by hand.
//
//	go run ./cmd/hashpass <password>
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dk-code-insights/storefront/internal/config"
	"github.com/dk-code-insights/storefront/internal/pkg/auth"
)

func main() {
	if len(os.Args) < 2 {
		logrus.Fatal("Usage: hashpass <password>")
	}
	password := os.Args[1]

	cost := 12
	if cfg, err := config.Load(); err == nil && cfg.Security.BcryptCost > 0 {
		cost = cfg.Security.BcryptCost
	}

	passwords := auth.NewPasswordManager(cost)
	hash, err := passwords.HashPassword(password)
	if err != nil {
		logrus.WithError(err).Fatal("Error generating hash")
	}
	if err := passwords.VerifyPassword(password, hash); err != nil {
		logrus.WithError(err).Fatal("Hash verification failed")
	}

	fmt.Println(hash)
}
