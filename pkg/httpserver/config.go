package httpserver

import "time"

// Config is loaded from the environment. Read and write timeouts are
// intentionally absent: the main traffic is websocket upgrades, and a
// server-level write deadline would sever every open connection.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}
