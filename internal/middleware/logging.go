package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// eventScoped is implemented by request messages that target a single event.
type eventScoped interface {
	GetEventID() string
}

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with its procedure, request ID, event ID when the message carries one, and
// duration. Install it after RequestID so the ID is already in the context.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []slog.Attr{
				slog.String("procedure", req.Spec().Procedure),
				slog.String("request_id", GetRequestID(ctx)),
			}
			if msg, ok := req.Any().(eventScoped); ok && msg.GetEventID() != "" {
				attrs = append(attrs, slog.String("event_id", msg.GetEventID()))
			}
			attrs = append(attrs, slog.Int64("duration_ms", time.Since(start).Milliseconds()))

			var connectErr *connect.Error
			switch {
			case err == nil:
				attrs = append(attrs, slog.String("peer", req.Peer().Addr))
				slog.LogAttrs(ctx, slog.LevelInfo, "RPC ok", attrs...)
			case errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal:
				// Caller mistakes; the handler already chose the code.
				attrs = append(attrs,
					slog.String("code", connectErr.Code().String()),
					slog.String("error", connectErr.Message()),
				)
				slog.LogAttrs(ctx, slog.LevelWarn, "RPC error", attrs...)
			default:
				attrs = append(attrs, slog.Any("error", err))
				slog.LogAttrs(ctx, slog.LevelError, "RPC error", attrs...)
			}

			return resp, err
		}
	}
}
