package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/photoid/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	// Create handlers
	standardsHandler := handlers.NewStandardsHandler()
	checkHandler := handlers.NewCheckHandler(s.pipeline, s.store, s.log)
	cropHandler := handlers.NewCropHandler(s.pipeline, s.segment, s.log)
	historyHandler := handlers.NewHistoryHandler(s.store)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/standards", standardsHandler.List)
		r.Get("/standards/{id}", standardsHandler.Get)
		r.Post("/check", checkHandler.Check)
		r.Post("/crop", cropHandler.Crop)
		r.Get("/history", historyHandler.List)
	})

	s.router.Get("/", s.serveIndex)
}

// serveIndex answers the root path with a short pointer to the API.
func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Photo ID</title>
    <style>
        body { font-family: system-ui, sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; background: #1a1a2e; color: #eee; }
        .container { text-align: center; }
        h1 { color: #00d9ff; }
        p { color: #aaa; }
        a { color: #00d9ff; }
        code { background: #2a2a3e; padding: 2px 8px; border-radius: 4px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Photo ID API</h1>
        <p>POST a photo to <code>/api/v1/check</code> to evaluate it, or to <code>/api/v1/crop</code> to render it.</p>
        <p>Standards list at <a href="/api/v1/standards">/api/v1/standards</a>, health at <a href="/api/v1/health">/api/v1/health</a></p>
    </div>
</body>
</html>`))
}
