// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Values are parsed with caarlos0/env struct tags:
//
//	type ServerConfig struct {
//		Addr       string        `env:"ADDR" envDefault:":8080"`
//		BackendURL string        `env:"BACKEND_URL,required"`
//		Timeout    time.Duration `env:"TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
//
// The default .env file is loaded at most once per process; a missing file
// is not an error.
package config
