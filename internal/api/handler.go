package api

import (
	"github.com/frifster/yougene/internal/service"
	"github.com/frifster/yougene/internal/storage"
)

// SessionHandler groups all duel-session HTTP handlers.
type SessionHandler struct {
	coord *service.Coordinator
	repo  storage.Repository
}

// NewSessionHandler creates a new SessionHandler with the given coordinator
// and catalog repository.
func NewSessionHandler(coord *service.Coordinator, repo storage.Repository) *SessionHandler {
	return &SessionHandler{coord: coord, repo: repo}
}
