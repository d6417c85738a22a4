// Package manager implements the control plane: user registration and login,
// the channel catalogue, listen hand-offs to chat workers and the worker
// report stream that keeps the registry and connected-user cache current.
package manager

import (
	"context"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/parley-chat/parley/auth"
	"github.com/parley-chat/parley/chatrpc"
	"github.com/parley-chat/parley/common"
	"github.com/parley-chat/parley/log"
)

// argon2id parameters applied to every password
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// UserService implements chatrpc.UserServiceServer
type UserService struct {
	store  UserStore
	tokens *auth.Service
	salt   []byte
}

// NewUserService returns a user service hashing passwords with the
// deployment salt
func NewUserService(store UserStore, tokens *auth.Service, salt string) *UserService {
	return &UserService{store: store, tokens: tokens, salt: []byte(salt)}
}

// AuthFuncOverride exempts the whole user service from the bearer token
// interceptor; register and login are the two unauthenticated entry points.
func (s *UserService) AuthFuncOverride(ctx context.Context, _ string) (context.Context, error) {
	return ctx, nil
}

// Register creates a user with an argon2id password hash
func (s *UserService) Register(ctx context.Context, req *chatrpc.RegisterRequest) (*chatrpc.Empty, error) {
	if req == nil || req.UserID == "" || req.Password == "" {
		return nil, chatrpc.StatusFromError(fmt.Errorf("%w: user id and password required", common.ErrValidate))
	}
	if err := s.store.InsertUser(ctx, req.UserID, req.Name, s.hash(req.Password)); err != nil {
		return nil, chatrpc.StatusFromError(err)
	}
	log.Debugf(log.ManagerSys, "registered user %s", req.UserID)
	return &chatrpc.Empty{}, nil
}

// Login verifies the password and issues a 24h user token
func (s *UserService) Login(ctx context.Context, req *chatrpc.LoginRequest) (*chatrpc.LoginResponse, error) {
	if req == nil || req.UserID == "" {
		return nil, chatrpc.StatusFromError(fmt.Errorf("%w: user id required", common.ErrValidate))
	}
	stored, err := s.store.UserPasswordHash(ctx, req.UserID)
	if err != nil {
		return nil, chatrpc.StatusFromError(err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(s.hash(req.Password))) != 1 {
		return nil, chatrpc.StatusFromError(common.ErrInvalidPassword)
	}
	token, err := s.tokens.UserToken(req.UserID)
	if err != nil {
		return nil, chatrpc.StatusFromError(err)
	}
	return &chatrpc.LoginResponse{Token: token}, nil
}

func (s *UserService) hash(password string) string {
	return hex.EncodeToString(argon2.IDKey([]byte(password), s.salt, argonTime, argonMemory, argonThreads, argonKeyLen))
}
