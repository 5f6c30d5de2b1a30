package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/taskhive/realtime/pkg/auth"
	"github.com/taskhive/realtime/pkg/logger"
	"github.com/taskhive/realtime/pkg/notifications"
	"github.com/taskhive/realtime/pkg/registry"
)

// handshakeState tracks one connection attempt through the auth
// handshake. Rejected and post-Authenticated disconnect are terminal.
type handshakeState int

const (
	stateConnecting handshakeState = iota
	stateAuthenticating
	stateAuthenticated
	stateRejected
)

func (s handshakeState) String() string {
	switch s {
	case stateConnecting:
		return "connecting"
	case stateAuthenticating:
		return "authenticating"
	case stateAuthenticated:
		return "authenticated"
	case stateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Client-initiated operations and their acks.
const (
	eventJoinProject   = "join-project"
	eventLeaveProject  = "leave-project"
	eventJoinedProject = "joined-project"
	eventLeftProject   = "left-project"
)

// clientMessage is an inbound frame. Data carries the project ID for
// room operations.
type clientMessage struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

// Gateway upgrades HTTP requests to websocket channels. It implements
// http.Handler and is mounted on a single route by the host process.
type Gateway struct {
	verifier auth.Verifier
	registry *registry.Registry
	store    notifications.Store
	cfg      Config
	log      *slog.Logger
	upgrader websocket.Upgrader
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the gateway logger.
func WithLogger(log *slog.Logger) Option {
	return func(g *Gateway) {
		if log != nil {
			g.log = log
		}
	}
}

// WithConfig overrides the default socket tuning.
func WithConfig(cfg Config) Option {
	return func(g *Gateway) {
		g.cfg = cfg
	}
}

// New wires a gateway over the connection table and notification
// buffer.
func New(verifier auth.Verifier, reg *registry.Registry, store notifications.Store, opts ...Option) *Gateway {
	g := &Gateway{
		verifier: verifier,
		registry: reg,
		store:    store,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.cfg.applyDefaults()

	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(g.cfg.AllowedOrigins),
	}
	return g
}

// ServeHTTP runs the handshake state machine for one connection
// attempt and, on success, the channel's read loop until disconnect.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	state := stateConnecting

	token := bearerToken(r)
	if token == "" {
		state = stateRejected
		g.log.Info("connection rejected",
			logger.Component("gateway"),
			slog.String("state", state.String()),
			slog.String("reason", "missing token"),
		)
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	state = stateAuthenticating
	identity, err := g.verifier.Verify(r.Context(), token)
	if err != nil {
		state = stateRejected
		g.log.Info("connection rejected",
			logger.Component("gateway"),
			slog.String("state", state.String()),
			logger.Error(err),
		)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		g.log.Warn("websocket upgrade failed",
			logger.Component("gateway"),
			logger.UserID(identity.UserID),
			logger.Error(err),
		)
		return
	}

	state = stateAuthenticated
	ch := newWSChannel(conn, identity.UserID, g.cfg)
	go ch.writePump()
	g.registry.Register(ch)

	g.log.Info("channel connected",
		logger.Component("gateway"),
		slog.String("state", state.String()),
		logger.ChannelID(ch.ID()),
		logger.UserID(identity.UserID),
	)

	g.deliverBacklog(r, ch)
	g.readLoop(ch)
}

// deliverBacklog drains the user's buffer and emits it as one batch.
// The batch event is sent even when empty so clients can treat it as
// the end of the handshake. The drain clears the buffer atomically with
// the read, so a second connect never replays these notifications.
func (g *Gateway) deliverBacklog(r *http.Request, ch *wsChannel) {
	backlog, err := g.store.Drain(r.Context(), ch.UserID())
	if err != nil {
		g.log.Error("failed to drain notification buffer",
			logger.Component("gateway"),
			logger.UserID(ch.UserID()),
			logger.Error(err),
		)
		backlog = []notifications.Notification{}
	}

	if err := ch.Send(r.Context(), registry.Event{
		Name: notifications.EventNotificationBatch,
		Data: backlog,
	}); err != nil {
		g.log.Warn("failed to deliver notification backlog",
			logger.Component("gateway"),
			logger.ChannelID(ch.ID()),
			logger.UserID(ch.UserID()),
			logger.Error(err),
		)
	}
}

// readLoop handles inbound room commands until the socket errors or
// closes, then unregisters the channel. Unknown events are ignored.
func (g *Gateway) readLoop(ch *wsChannel) {
	defer func() {
		g.registry.Unregister(ch.ID())
		_ = ch.Close()
		g.log.Info("channel disconnected",
			logger.Component("gateway"),
			logger.ChannelID(ch.ID()),
			logger.UserID(ch.UserID()),
		)
	}()

	ch.conn.SetReadLimit(g.cfg.ReadLimit)
	_ = ch.conn.SetReadDeadline(time.Now().Add(g.cfg.PongWait))
	ch.conn.SetPongHandler(func(string) error {
		return ch.conn.SetReadDeadline(time.Now().Add(g.cfg.PongWait))
	})

	for {
		var msg clientMessage
		if err := ch.conn.ReadJSON(&msg); err != nil {
			return
		}
		_ = ch.conn.SetReadDeadline(time.Now().Add(g.cfg.PongWait))

		switch msg.Event {
		case eventJoinProject:
			g.registry.JoinRoom(ch.ID(), registry.ProjectRoom(msg.Data))
			g.ack(ch, eventJoinedProject, msg.Data)
		case eventLeaveProject:
			g.registry.LeaveRoom(ch.ID(), registry.ProjectRoom(msg.Data))
			g.ack(ch, eventLeftProject, msg.Data)
		default:
			g.log.Debug("ignoring unknown client event",
				logger.Component("gateway"),
				logger.ChannelID(ch.ID()),
				logger.Event(msg.Event),
			)
		}
	}
}

func (g *Gateway) ack(ch *wsChannel, event, projectID string) {
	if err := ch.Send(context.Background(), registry.Event{Name: event, Data: projectID}); err != nil {
		g.log.Warn("failed to ack room operation",
			logger.Component("gateway"),
			logger.ChannelID(ch.ID()),
			logger.Event(event),
			logger.Error(err),
		)
	}
}

// bearerToken extracts the handshake token from the "token" query
// parameter or an "Authorization: Bearer" header, in that order.
func bearerToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	header := r.Header.Get("Authorization")
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// originChecker builds the upgrader's CheckOrigin policy: requests
// without an Origin header are always accepted (non-browser clients),
// "*" accepts anything, an empty allow list accepts same-host origins
// only, otherwise the origin must match the allow list exactly.
func originChecker(allowed []string) func(*http.Request) bool {
	allowAll := false
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			allowAll = true
		}
		set[origin] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || allowAll {
			return true
		}
		if len(set) == 0 {
			u, err := url.Parse(origin)
			return err == nil && strings.EqualFold(u.Host, r.Host)
		}
		_, ok := set[origin]
		return ok
	}
}
