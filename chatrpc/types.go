// Package chatrpc holds the wire surface of the chat plane: request and
// response types, the json codec they travel with, and hand-maintained gRPC
// bindings for the user, channel and chat services.
package chatrpc

import (
	"github.com/parley-chat/parley/common"
)

// Empty is the zero-field response
type Empty struct{}

// User identifies a registered user; Name is only hydrated on list responses
type User struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Channel is a logical broadcast topic. Users carries the currently connected
// users as observed through worker reports; it is never read from the
// database.
type Channel struct {
	ID      int32   `json:"id"`
	Name    string  `json:"name"`
	Limit   int32   `json:"limit"`
	Users   []*User `json:"users,omitempty"`
	OwnerID string  `json:"owner_id,omitempty"`
}

// Validate checks the client-settable channel fields
func (c *Channel) Validate() error {
	if c == nil || c.Name == "" || c.Limit <= 0 {
		return common.ErrValidate
	}
	return nil
}

// ListResponse carries channel listings
type ListResponse struct {
	Channels []*Channel `json:"channels"`
}

// ChannelServer identifies the worker a client should connect to
type ChannelServer struct {
	Addr string `json:"addr"`
}

// ListenResponse returns the capability token and the worker holding the
// channel
type ListenResponse struct {
	Token  string         `json:"token"`
	Server *ChannelServer `json:"server"`
}

// RegisterRequest creates a user
type RegisterRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest authenticates a user
type LoginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

// LoginResponse carries the long-lived user token
type LoginResponse struct {
	Token string `json:"token"`
}

// Message is one frame on a channel. Exactly one of Text or Audio is set.
// UserID and Timestamp are assigned server-side at publish; values sent by
// clients are overwritten.
type Message struct {
	UserID    string `json:"user_id,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Text      string `json:"text,omitempty"`
	Audio     []byte `json:"audio,omitempty"`
}

// ShutdownRequest orders a worker to drop one user from a channel, or the
// whole channel when UserID is empty
type ShutdownRequest struct {
	ChannelID int32  `json:"channel_id"`
	UserID    string `json:"user_id,omitempty"`
}

// ReportRequest is a worker's periodic snapshot of its held channels
type ReportRequest struct {
	Channels []*Channel `json:"channels"`
}

// ReportResponse is the manager's return leg on the report stream
type ReportResponse struct {
	Shutdown *ShutdownRequest `json:"shutdown,omitempty"`
}
