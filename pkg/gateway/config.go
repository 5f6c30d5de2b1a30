package gateway

import "time"

// Config tunes socket behavior. Defaults suit browser clients on the
// same deployment.
type Config struct {
	// WriteWait bounds a single frame write to one client.
	WriteWait time.Duration `env:"GATEWAY_WRITE_WAIT" envDefault:"10s"`
	// SendBuffer is the per-channel outbound queue length. When the
	// queue is full the channel is considered too slow and the event is
	// dropped for it.
	SendBuffer int `env:"GATEWAY_SEND_BUFFER" envDefault:"64"`
	// ReadLimit caps inbound frame size in bytes. Clients only send
	// small room commands.
	ReadLimit int64 `env:"GATEWAY_READ_LIMIT" envDefault:"4096"`
	// PongWait is how long the socket may stay silent before it is
	// considered dead. Pongs and data frames both reset the clock.
	PongWait time.Duration `env:"GATEWAY_PONG_WAIT" envDefault:"60s"`
	// PingPeriod is the server-side ping interval. Must be shorter than
	// PongWait; left zero it defaults to PongWait * 9/10.
	PingPeriod time.Duration `env:"GATEWAY_PING_PERIOD"`
	// AllowedOrigins lists origins allowed to open a socket. Empty
	// means same-host only; "*" allows any origin.
	AllowedOrigins []string `env:"GATEWAY_ALLOWED_ORIGINS" envSeparator:","`
}

func (c *Config) applyDefaults() {
	if c.WriteWait <= 0 {
		c.WriteWait = 10 * time.Second
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = 64
	}
	if c.ReadLimit <= 0 {
		c.ReadLimit = 4096
	}
	if c.PongWait <= 0 {
		c.PongWait = 60 * time.Second
	}
	if c.PingPeriod <= 0 || c.PingPeriod >= c.PongWait {
		c.PingPeriod = c.PongWait * 9 / 10
	}
}
