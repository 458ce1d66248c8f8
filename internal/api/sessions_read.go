package api

import (
	"net/http"
	"strconv"

	"github.com/frifster/yougene/internal/constants"

	"github.com/gin-gonic/gin"
)

// GetSession returns a snapshot of the duel state.
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	d, ok := h.coord.GetSession(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
		return
	}
	c.JSON(http.StatusOK, d)
}

// GetBattleLog returns the session's action history and aggregate stats.
func (h *SessionHandler) GetBattleLog(c *gin.Context) {
	sessionID := c.Param("sessionId")
	log, ok := h.coord.GetLog(sessionID)
	if !ok {
		// Finished sessions are released from memory; fall back to the archive.
		if h.repo != nil {
			if a, err := h.repo.GetDuelArchive(sessionID); err == nil {
				c.JSON(http.StatusOK, a)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
		return
	}
	c.JSON(http.StatusOK, log)
}

// GetCreatures returns the selectable creature catalog, stats and kits
// resolved from config.
func (h *SessionHandler) GetCreatures(c *gin.Context) {
	templates, err := h.repo.GetCreatures()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: "failed to load creatures"})
		return
	}
	c.JSON(http.StatusOK, templates)
}

// GetLeaderboard returns the top player profiles by wins.
func (h *SessionHandler) GetLeaderboard(c *gin.Context) {
	limit := 10
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			limit = v
		}
	}
	profiles, err := h.repo.GetTopProfiles(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: "failed to load leaderboard"})
		return
	}
	c.JSON(http.StatusOK, profiles)
}
