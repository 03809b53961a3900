package middleware

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/infrastructure/auth"
)

const (
	// AuthorizationHeader is the metadata key for authorization
	AuthorizationHeader = "authorization"

	healthServicePrefix = "/grpc.health.v1.Health/"
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthInterceptor creates a gRPC authentication interceptor
func AuthInterceptor(verifier TokenVerifier) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if strings.HasPrefix(info.FullMethod, healthServicePrefix) {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		values := md.Get(AuthorizationHeader)
		if len(values) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization token")
		}

		accessToken := strings.TrimPrefix(values[0], "Bearer ")

		claims, err := verifier.Verify(accessToken)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
		}

		return handler(domain.ContextWithUser(ctx, claims.User()), req)
	}
}

// RequireRoleInterceptor rejects calls to methods unless the user holds role.
// Methods not listed pass through. Admins pass every check.
func RequireRoleInterceptor(role domain.Role, methods ...string) grpc.UnaryServerInterceptor {
	guarded := make(map[string]bool, len(methods))
	for _, m := range methods {
		guarded[m] = true
	}

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if !guarded[info.FullMethod] {
			return handler(ctx, req)
		}

		user, ok := domain.UserFromContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "unauthorized")
		}
		if user.Role != role && user.Role != domain.RoleAdmin {
			return nil, status.Error(codes.PermissionDenied, "insufficient permissions")
		}

		return handler(ctx, req)
	}
}
