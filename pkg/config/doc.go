// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Configuration structs declare their variables through `env` struct tags
// understood by github.com/caarlos0/env:
//
//	type GatewayConfig struct {
//		Addr        string        `env:"GATEWAY_ADDR" envDefault:":8080"`
//		WriteWait   time.Duration `env:"GATEWAY_WRITE_WAIT" envDefault:"10s"`
//	}
//
//	var cfg GatewayConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
//
// The first Load call in a process attempts to read a .env file from the
// working directory; a missing file is not an error.
package config
