package auth

import (
	"context"

	grpcauth "github.com/grpc-ecosystem/go-grpc-middleware/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/parley-chat/parley/common"
)

type claimsContextKey struct{}

// AuthFunc extracts and verifies the bearer token from request metadata and
// stashes the claims in the context. Wire it with
// grpcauth.UnaryServerInterceptor / grpcauth.StreamServerInterceptor;
// services exempt from auth implement grpcauth.ServiceAuthFuncOverride.
func (s *Service) AuthFunc(ctx context.Context) (context.Context, error) {
	token, err := grpcauth.AuthFromMD(ctx, "bearer")
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, common.ErrAuthMissing.Error())
	}
	claims, err := s.Verify(token)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}
	return context.WithValue(ctx, claimsContextKey{}, claims), nil
}

// ClaimsFromContext returns the claims stored by AuthFunc
func ClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(claimsContextKey{}).(*Claims)
	if !ok {
		return nil, common.ErrAuthMissing
	}
	return claims, nil
}
