package api

import (
	"errors"
	"net/http"

	"github.com/frifster/yougene/internal/engine"
	"github.com/frifster/yougene/internal/service"
)

// statusForError maps coordinator and engine errors onto HTTP status codes.
// Missing things are 404, seat conflicts are 409, everything the engine
// rejects about the turn itself is the caller's fault.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, engine.ErrDuelNotFound),
		errors.Is(err, engine.ErrCombatantNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSessionFull),
		errors.Is(err, service.ErrSessionNotJoinable):
		return http.StatusConflict
	case errors.Is(err, engine.ErrDuelNotActive),
		errors.Is(err, engine.ErrAbilityNotFound),
		errors.Is(err, engine.ErrAbilityOnCooldown),
		errors.Is(err, engine.ErrInsufficientEnergy):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
