package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/mahjonggame-go/internal/middleware"
)

const errorPage = `<!DOCTYPE html>
<html>
<head><title>Mahjong - Error</title></head>
<body>
<h1>Something went wrong</h1>
<p>The page could not be rendered. The room itself is unaffected.</p>
<p><a href="/">Back to the room list</a></p>
</body>
</html>`

// Recovery renders an HTML error page when a page handler panics
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("component", "web")), func(w http.ResponseWriter, _ *http.Request, _ any) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(errorPage))
	})
}
