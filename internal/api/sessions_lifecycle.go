package api

import (
	"net/http"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/frifster/yougene/internal/constants"
	"github.com/frifster/yougene/internal/game"
	"github.com/frifster/yougene/internal/logging"
	"github.com/frifster/yougene/internal/service"

	"github.com/gin-gonic/gin"
)

type CreateSessionPayload struct {
	VsBot bool `json:"vs_bot"`
}

// CreateSession creates a new pending duel session and returns its ID.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionPayload
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	id := h.coord.CreateSession(req.VsBot)
	c.JSON(http.StatusCreated, gin.H{"session_id": id})
}

type JoinSessionPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Creature   string `json:"creature"`
}

// JoinSession seats a player in a pending session with a combatant built
// from the named catalog creature.
func (h *SessionHandler) JoinSession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	var req JoinSessionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if utf8.RuneCountInString(req.PlayerName) > 32 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if req.PlayerID == "" {
		req.PlayerID = uuid.NewString()
	}

	kit, ok := h.repo.KitByName(req.Creature)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: "creature not found"})
		return
	}
	combatant := kit.NewCombatant(req.PlayerName, game.Position{})

	err := h.coord.Join(sessionID, service.ParticipantInfo{
		ID:        req.PlayerID,
		Name:      req.PlayerName,
		Combatant: combatant,
	})
	if err != nil {
		c.JSON(statusForError(err), gin.H{constants.JSONKeyError: err.Error()})
		return
	}

	logging.Info("player joined session", logging.Fields{
		constants.LogFieldSessionID: sessionID,
		constants.LogFieldPlayerID:  req.PlayerID,
		constants.LogFieldCreature:  req.Creature,
	})
	c.JSON(http.StatusOK, gin.H{
		"player_id":    req.PlayerID,
		"combatant_id": combatant.ID,
	})
}

type ReadySessionPayload struct {
	PlayerID string `json:"player_id"`
}

// ReadySession marks a participant ready. The duel auto-starts once both
// sides are ready.
func (h *SessionHandler) ReadySession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	var req ReadySessionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	h.coord.SetReady(sessionID, req.PlayerID)
	d, ok := h.coord.GetSession(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
		return
	}
	c.JSON(http.StatusOK, d)
}

// StartSession forces a fully seated pending session into progress.
func (h *SessionHandler) StartSession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if err := h.coord.StartSession(sessionID); err != nil {
		c.JSON(statusForError(err), gin.H{constants.JSONKeyError: err.Error()})
		return
	}
	d, _ := h.coord.GetSession(sessionID)
	c.JSON(http.StatusOK, d)
}

type SubmitTurnPayload struct {
	AttackerID string         `json:"attacker_id"`
	DefenderID string         `json:"defender_id"`
	AbilityID  string         `json:"ability_id"`
	Position   *game.Position `json:"position"`
}

// SubmitTurn resolves one turn for the attacking combatant. Against a bot
// the response already includes the bot's answering move.
func (h *SessionHandler) SubmitTurn(c *gin.Context) {
	sessionID := c.Param("sessionId")
	var req SubmitTurnPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if req.AttackerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	d, err := h.coord.SubmitTurn(sessionID, req.AttackerID, req.DefenderID, req.AbilityID, req.Position)
	if err != nil {
		c.JSON(statusForError(err), gin.H{constants.JSONKeyError: err.Error()})
		return
	}
	c.JSON(http.StatusOK, d)
}

type LeaveSessionPayload struct {
	PlayerID string `json:"player_id"`
}

// LeaveSession removes a participant. Leaving twice is a no-op.
func (h *SessionHandler) LeaveSession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	var req LeaveSessionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	h.coord.Leave(sessionID, req.PlayerID)
	c.Status(http.StatusNoContent)
}

// EndSession force-completes a session, archives the result and releases it.
func (h *SessionHandler) EndSession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if _, ok := h.coord.GetSession(sessionID); !ok {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
		return
	}
	h.coord.EndSession(sessionID)
	c.Status(http.StatusNoContent)
}
