package constants

// Centralized constants for defaults, routes, JSON fields and log fields.
const (
	// Defaults
	DefaultConfigPath = "./yougene_config.json"
	DefaultDBPath     = "./data/yougene.db"
	DefaultAddress    = ":8080"

	// JSON response keys
	JSONKeyError = "error"

	// Common error messages returned by the API
	ErrInvalidRequest  = "invalid request"
	ErrSessionNotFound = "session not found"

	// Log field names
	LogFieldSessionID = "session_id"
	LogFieldPlayerID  = "player_id"
	LogFieldCreature  = "creature"
	LogFieldAddr      = "addr"
)

// Routes used by the backend router
const (
	RouteAPIPrefix     = "/api"
	RouteCreatures     = "/creatures"
	RouteLeaderboard   = "/leaderboard"
	RouteSessions      = "/sessions"
	RouteSessionByID   = "/sessions/:sessionId"
	RouteSessionJoin   = "/sessions/:sessionId/join"
	RouteSessionReady  = "/sessions/:sessionId/ready"
	RouteSessionStart  = "/sessions/:sessionId/start"
	RouteSessionLeave  = "/sessions/:sessionId/leave"
	RouteSessionEnd    = "/sessions/:sessionId/end"
	RouteSessionTurn   = "/sessions/:sessionId/turn"
	RouteSessionLog    = "/sessions/:sessionId/log"
	RouteSessionSocket = "/ws/sessions/:sessionId"
	RouteVersion       = "/version"
)
