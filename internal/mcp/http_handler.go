package mcp

import (
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewHTTPHandler serves server over the streamable HTTP transport. Request
// headers reach the auth middleware through the request extra.
func NewHTTPHandler(server *sdkmcp.Server, sessionTimeout time.Duration) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return server
	}, &sdkmcp.StreamableHTTPOptions{
		SessionTimeout: sessionTimeout,
	})
}
