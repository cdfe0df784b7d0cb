// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
// optional .env files are merged into the process environment first, then
// env.Parse fills any struct annotated with env tags.
//
//	var cfg bgserve.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Load reads ./.env once per process when it exists. LoadEnv loads explicit
// files and reports missing ones with ErrLoadingEnvFile. Parse failures,
// including missing required variables, are joined with ErrParsingConfig.
package config
