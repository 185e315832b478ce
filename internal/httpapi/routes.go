package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/itu-itis24-kececi24/Hearts/internal/hub"
	"github.com/itu-itis24-kececi24/Hearts/internal/ws"
)

func SetupRoutes(h *hub.Hub, originPatterns []string, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/rooms", ListRooms(h))
	r.Get("/ws", ws.Handler(h, originPatterns, log))
	return r
}
