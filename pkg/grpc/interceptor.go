package grpc

import (
	"context"
	"strings"

	"github.com/scienceol/lims/pkg/middleware/auth"
	"github.com/scienceol/lims/pkg/middleware/logger"
	"github.com/scienceol/lims/pkg/repo/model"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// skipAuth returns true for services that should not require authentication.
func skipAuth(fullMethod string) bool {
	return strings.HasPrefix(fullMethod, "/grpc.reflection.") ||
		strings.HasPrefix(fullMethod, "/grpc.health.")
}

func extractAndValidateToken(ctx context.Context) (*model.UserData, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing metadata")
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing authorization header")
	}

	parts := strings.SplitN(values[0], " ", 2)
	if len(parts) != 2 {
		return nil, status.Error(codes.Unauthenticated, "invalid authorization format")
	}
	if auth.AuthType(parts[0]) != auth.AuthTypeBearer {
		return nil, status.Errorf(codes.Unauthenticated, "unsupported auth type: %s", parts[0])
	}
	user, err := auth.Resolve(ctx, parts[1])
	if err != nil {
		logger.Warnf(ctx, "gRPC auth: bearer token validation failed: %v", err)
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}
	return user, nil
}

func UnaryAuthInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if skipAuth(info.FullMethod) {
			return handler(ctx, req)
		}
		user, err := extractAndValidateToken(ctx)
		if err != nil {
			return nil, err
		}
		return handler(auth.WithUser(ctx, user), req)
	}
}

func StreamAuthInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if skipAuth(info.FullMethod) {
			return handler(srv, ss)
		}
		user, err := extractAndValidateToken(ss.Context())
		if err != nil {
			return err
		}
		return handler(srv, &wrappedStream{ServerStream: ss, ctx: auth.WithUser(ss.Context(), user)})
	}
}

type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context {
	return w.ctx
}
