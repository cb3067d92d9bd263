package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/authgate/internal/flagx"
)

// parseFlags populates selected gateway Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-r string   Redis address for the shared counter store
//	-s string   session token HMAC secret key
//	-t int      session validity, minutes
//	-b int      bcrypt cost factor
//	-li int     sign-in attempts allowed per window
//	-lw int     sign-in window, minutes
//	-ui int     sign-up attempts allowed per window
//	-uw int     sign-up window, minutes
//	-o string   comma-separated CORS origins
//	-dev bool   development mode (insecure cookies allowed)
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-s", "-t", "-b", "-li", "-lw", "-ui", "-uw", "-o", "-dev"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address (counter store)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost factor")

	sessionValidity := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session_validity_duration (in minutes)")

	fs.Int64Var(&config.SignInLimit, "li", config.SignInLimit, "sign-in attempts per window")
	signInWindow := fs.Int("lw", int(config.SignInWindow.Minutes()), "sign-in window (in minutes)")
	fs.Int64Var(&config.SignUpLimit, "ui", config.SignUpLimit, "sign-up attempts per window")
	signUpWindow := fs.Int("uw", int(config.SignUpWindow.Minutes()), "sign-up window (in minutes)")

	fs.StringVar(&config.CORSAllowedOrigins, "o", config.CORSAllowedOrigins, "CORS allowed origins (comma-separated)")
	fs.BoolVar(&config.DevMode, "dev", config.DevMode, "development mode")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Minute
	config.SignInWindow = time.Duration(*signInWindow) * time.Minute
	config.SignUpWindow = time.Duration(*signUpWindow) * time.Minute
}
