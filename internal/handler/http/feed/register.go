package feed

import (
	"log/slog"
	"net/http"
)

// Pattern is the route of the feed endpoint. The wildcard takes the rest of
// the path so that multi-segment paths reach validation and are rejected with 400.
const Pattern = "GET /{section...}"

// Register registers the feed handler with the given mux.
// Operational routes registered with more specific patterns take precedence.
func Register(mux *http.ServeMux, svc Service, logger *slog.Logger) {
	mux.Handle(Pattern, Handler{Svc: svc, Logger: logger})
}
