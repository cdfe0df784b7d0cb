package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Load parses environment variables into v according to its field tags.
// The first call also loads ./.env when it exists. Variables already present
// in the process environment are never overwritten by .env values.
//
// Example:
//
//	type Config struct {
//		Port    int           `env:"BGSERVE_HTTP_PORT" envDefault:"0"`
//		Timeout time.Duration `env:"BGSERVE_HTTP_START_TIMEOUT" envDefault:"1s"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		// Handle error
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// The default .env file is optional.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// LoadPrefixed works like Load but prepends prefix to every env key.
func LoadPrefixed[T any](v *T, prefix string) error {
	if v == nil {
		return ErrNilPointer
	}
	defaultEnvLoaded.Do(func() { _ = godotenv.Load() })
	if err := env.ParseWithOptions(v, env.Options{Prefix: prefix}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}

// LoadEnv loads the given .env files into the process environment. Later files
// do not override values set by earlier ones or by the process. With no
// arguments it loads ./.env.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// MustLoadEnv works like LoadEnv but panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("Failed to load env files: %v", err))
	}
}
