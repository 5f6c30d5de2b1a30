// Package notifications holds the notification model, the per-user
// buffer of undelivered notifications, and the delivery router that
// decides which live channels receive each outbound event.
//
// Delivery contract: a user with live channels receives a notification
// on every one of them and nothing is buffered; a user with none gets
// the notification buffered and drains it as a single batch on the next
// successful connect. Room and global broadcasts are ephemeral and never
// buffered for absent members.
//
// Delivery failures never propagate to the mutation that triggered them;
// they are logged and swallowed at this boundary.
package notifications
