// Package auth issues and verifies the three HS256 token shapes used across
// the chat plane (long-lived user tokens, short-lived connect capabilities
// and worker report tokens) and guards manager listens with a fixed-window
// rate limiter.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/parley-chat/parley/common"
)

// Token lifetimes. The capability TTL is deliberately tiny: it authorizes a
// single listen->connect hand-off and is not a session.
const (
	UserTokenTTL   = 24 * time.Hour
	CapabilityTTL  = 5 * time.Second
	WorkerTokenTTL = 30 * 24 * time.Hour
)

var errSecretUnset = errors.New("token secret unset")

// Claims carries all claim fields used by the deployment. User tokens set
// UserID only; capabilities add ChannelID and Addr; worker tokens set Addr
// only.
type Claims struct {
	UserID    string `json:"user_id,omitempty"`
	ChannelID int32  `json:"channel_id,omitempty"`
	Addr      string `json:"addr,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies tokens with a shared deployment secret
type Service struct {
	secret []byte
	now    func() time.Time
}

// NewService returns a token service bound to secret
func NewService(secret string) (*Service, error) {
	if secret == "" {
		return nil, errSecretUnset
	}
	return &Service{secret: []byte(secret), now: time.Now}, nil
}

// UserToken issues a long-lived token returned by login
func (s *Service) UserToken(userID string) (string, error) {
	return s.sign(&Claims{UserID: userID}, UserTokenTTL)
}

// Capability issues the short-lived token tying a listen on the manager to a
// connect on one specific worker
func (s *Service) Capability(userID string, channelID int32, workerAddr string) (string, error) {
	return s.sign(&Claims{UserID: userID, ChannelID: channelID, Addr: workerAddr}, CapabilityTTL)
}

// WorkerToken issues the token a worker presents on its report stream; the
// manager trusts Addr from the claim, not the transport peer
func (s *Service) WorkerToken(addr string) (string, error) {
	return s.sign(&Claims{Addr: addr}, WorkerTokenTTL)
}

func (s *Service) sign(claims *Claims, ttl time.Duration) (string, error) {
	now := s.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature and expiry and returns the embedded claims
func (s *Service) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrAuthInvalid, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, common.ErrAuthInvalid
	}
	return claims, nil
}
