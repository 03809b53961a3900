package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the metadata key for idempotency
	IdempotencyKeyHeader = "x-idempotency-key"
	// IdempotencyReplayHeader is set on responses served from the store.
	IdempotencyReplayHeader = "x-idempotency-replay"

	idempotencyTTL   = 24 * time.Hour
	processingMarker = "processing"
	anonymousScope   = "anonymous"
)

// IdempotencyInterceptor replays the first successful response of the listed
// methods for a repeated x-idempotency-key. Keys are scoped to the caller set by
// AuthInterceptor, which must run first. Replayed replies are raw JSON and rely
// on the JSON codec.
func IdempotencyInterceptor(store usecase.IdempotencyStore, logger zerolog.Logger, methods ...string) grpc.UnaryServerInterceptor {
	mutating := make(map[string]bool, len(methods))
	for _, m := range methods {
		mutating[m] = true
	}

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if !mutating[info.FullMethod] {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return handler(ctx, req)
		}

		keys := md.Get(IdempotencyKeyHeader)
		if len(keys) == 0 {
			return handler(ctx, req)
		}
		if keys[0] == "" {
			return nil, status.Error(codes.InvalidArgument, "idempotency key cannot be empty")
		}

		cacheKey := fmt.Sprintf("grpc:%s:%s:%s", callerScope(ctx), info.FullMethod, keys[0])

		exists, cached, err := store.CheckAndSet(ctx, cacheKey, []byte(processingMarker), idempotencyTTL)
		if err != nil {
			logger.Error().Err(err).Str("method", info.FullMethod).Msg("idempotency check failed")
			return nil, status.Error(codes.Internal, "idempotency check failed")
		}

		if exists {
			if string(cached) == processingMarker {
				return nil, status.Error(codes.Aborted, "a request with this key is still being processed")
			}
			_ = grpc.SetHeader(ctx, metadata.Pairs(IdempotencyReplayHeader, "true"))
			return json.RawMessage(cached), nil
		}

		resp, err := handler(ctx, req)

		storeCtx := context.WithoutCancel(ctx)
		if err != nil {
			if releaseErr := store.Release(storeCtx, cacheKey); releaseErr != nil {
				logger.Warn().Err(releaseErr).Str("method", info.FullMethod).Msg("failed to release idempotency key")
			}
			return resp, err
		}

		encoded, marshalErr := json.Marshal(resp)
		if marshalErr == nil {
			marshalErr = store.Update(storeCtx, cacheKey, encoded, idempotencyTTL)
		}
		if marshalErr != nil {
			logger.Error().Err(marshalErr).Str("method", info.FullMethod).Msg("failed to store idempotent response")
		}

		return resp, nil
	}
}

func callerScope(ctx context.Context) string {
	if user, ok := domain.UserFromContext(ctx); ok && user.ID != "" {
		return "user:" + user.ID
	}
	return anonymousScope
}
