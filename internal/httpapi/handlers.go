package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/itu-itis24-kececi24/Hearts/internal/hub"
	"github.com/itu-itis24-kececi24/Hearts/pkg/types"
)

// ListRooms returns the joinable rooms, the same view the lobby_list
// broadcast carries.
func ListRooms(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan []types.RoomInfo, 1)
		h.Inbox() <- hub.ListRooms{Reply: reply}
		rooms := <-reply

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rooms)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
