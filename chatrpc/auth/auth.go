// Package auth provides per-RPC bearer credentials for the chat plane's
// clients.
package auth

import (
	"context"
)

// TokenAuth attaches a bearer token to every outgoing RPC. The token may be
// a user token, a capability, or a worker report token; the server decides
// which claims it accepts.
type TokenAuth struct {
	Token string
}

// GetRequestMetadata implements credentials.PerRPCCredentials
func (t TokenAuth) GetRequestMetadata(_ context.Context, _ ...string) (map[string]string, error) {
	return map[string]string{
		"authorization": "Bearer " + t.Token,
	}, nil
}

// RequireTransportSecurity is false; deployments terminate TLS out of
// process or run on trusted networks
func (TokenAuth) RequireTransportSecurity() bool {
	return false
}
