// Command issue-token mints a bearer token for local development, signed with
// the same JWT_SECRET and JWT_ISSUER the API server reads.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/comitanigiacomo/kanso-fasting-planner/internal/core/services"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	userID := flag.String("user", "", "user id to put in the subject claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	envFile := flag.String("env", ".env", "optional .env file")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Fatal().Err(err).Str("file", *envFile).Msg("failed to load env file")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Fatal().Msg("JWT_SECRET environment variable not set")
	}
	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "kanso"
	}

	if *userID == "" {
		flag.Usage()
		os.Exit(2)
	}

	token, err := services.NewTokenService(secret, issuer, *ttl).GenerateToken(*userID)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to sign token")
	}

	fmt.Println(token)
}
