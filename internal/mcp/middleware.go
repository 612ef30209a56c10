package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const ownerIDKey contextKey = iota

// getOwnerID extracts the owner ID from context.
func getOwnerID(ctx context.Context) string {
	v, _ := ctx.Value(ownerIDKey).(string)
	return v
}

// OwnerResolver resolves an owner ID from a bearer token.
type OwnerResolver interface {
	ResolveOwner(ctx context.Context, token string) (string, error)
}

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(resolver OwnerResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Skip auth for protocol methods
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("unauthorized: missing headers")
			}

			auth := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				return nil, fmt.Errorf("unauthorized: missing bearer token")
			}

			ownerID, err := resolver.ResolveOwner(ctx, token)
			if err != nil || ownerID == "" {
				return nil, fmt.Errorf("unauthorized: invalid bearer token")
			}

			ctx = context.WithValue(ctx, ownerIDKey, ownerID)
			return next(ctx, method, req)
		}
	}
}

// noAuthMiddleware injects a fixed owner when auth is disabled.
func noAuthMiddleware(owner string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx = context.WithValue(ctx, ownerIDKey, owner)
			return next(ctx, method, req)
		}
	}
}
