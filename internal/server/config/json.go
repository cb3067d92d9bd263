package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/authgate/internal/flagx"
	"github.com/dmitrijs2005/authgate/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP        string         `json:"endpoint_addr_http"`
	DatabaseDSN             string         `json:"database_dsn"`
	RedisAddr               string         `json:"redis_addr"`
	SecretKey               string         `json:"secret_key"`
	SessionValidityDuration timex.Duration `json:"session_validity_duration"`
	BcryptCost              int            `json:"bcrypt_cost"`
	SignInLimit             int64          `json:"signin_limit"`
	SignInWindow            timex.Duration `json:"signin_window"`
	SignUpLimit             int64          `json:"signup_limit"`
	SignUpWindow            timex.Duration `json:"signup_window"`
	CORSAllowedOrigins      string         `json:"cors_allowed_origins"`
	DevMode                 bool           `json:"dev_mode"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The lookup order for the JSON file path is:
//
//	The -c or -config command-line flags.
//	If neither is set, no JSON file is loaded.
//
// If the file path is found, parseJson attempts to read and unmarshal it
// into a JsonConfig. The resulting values are copied into the target Config.
// If the file cannot be read or contains invalid JSON, the function panics.
//
// The caller is expected to merge these values with defaults, environment
// variables, and command-line flags as part of the full configuration
// process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.RedisAddr = c.RedisAddr
	config.SecretKey = c.SecretKey
	config.SessionValidityDuration = time.Duration(c.SessionValidityDuration.Duration)
	config.BcryptCost = c.BcryptCost
	config.SignInLimit = c.SignInLimit
	config.SignInWindow = time.Duration(c.SignInWindow.Duration)
	config.SignUpLimit = c.SignUpLimit
	config.SignUpWindow = time.Duration(c.SignUpWindow.Duration)
	config.CORSAllowedOrigins = c.CORSAllowedOrigins
	config.DevMode = c.DevMode
}
