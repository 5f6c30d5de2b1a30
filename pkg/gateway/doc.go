// Package gateway is the websocket edge of the realtime subsystem. It
// authenticates connection attempts, turns accepted sockets into
// registry channels, replays buffered notifications on connect, and
// handles the client-initiated room operations.
//
// Handshake state machine, per connection attempt:
//
//	Connecting → Authenticating → {Authenticated | Rejected}
//
// A missing token rejects in Connecting; a failed verification rejects
// in Authenticating. Rejection happens before the socket ever enters the
// registry, and there is no retry within one attempt — the client must
// reconnect.
//
// Wire protocol: JSON frames of the form {"event": <name>, "data": ...}.
// The server pushes "notifications" (connect backlog), "notification"
// (direct), and whatever named events services broadcast; the client
// sends "join-project" / "leave-project" and receives "joined-project" /
// "left-project" acks echoing the project ID.
package gateway
