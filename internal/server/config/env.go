package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// parseEnv loads a dotenv file (envPath, or ./.env when envPath is empty) into
// the process environment without overriding variables that are already set,
// then overlays config with the environment variables named in its env tags.
// Variables that are unset leave the current values untouched.
func parseEnv(config *Config, envPath string) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
