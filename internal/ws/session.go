package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/frifster/yougene/internal/constants"
	"github.com/frifster/yougene/internal/game"
	"github.com/frifster/yougene/internal/logging"
	"github.com/frifster/yougene/internal/service"
	"github.com/frifster/yougene/internal/storage"
)

const writeTimeout = 5 * time.Second

// ClientMessage is the single envelope for every command a client can send
// over the session socket.
type ClientMessage struct {
	Type       string  `json:"type"`
	PlayerID   string  `json:"player_id,omitempty"`
	PlayerName string  `json:"player_name,omitempty"`
	Creature   string  `json:"creature,omitempty"`
	AttackerID string  `json:"attacker_id,omitempty"`
	DefenderID string  `json:"defender_id,omitempty"`
	AbilityID  string  `json:"ability_id,omitempty"`
	X          float64 `json:"x,omitempty"`
	Y          float64 `json:"y,omitempty"`
}

// conn serializes writes: the bus pump and the read loop's direct error
// replies share the underlying websocket.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *conn) writeJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Handler upgrades session socket requests and runs their read/write loops.
type Handler struct {
	coord    *service.Coordinator
	bus      *service.Bus
	repo     storage.Repository
	upgrader websocket.Upgrader
}

// NewHandler constructs the websocket handler for duel sessions.
func NewHandler(coord *service.Coordinator, bus *service.Bus, repo storage.Repository) *Handler {
	return &Handler{
		coord: coord,
		bus:   bus,
		repo:  repo,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handle upgrades the request and serves the session socket until the peer
// goes away.
func (h *Handler) Handle(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if _, ok := h.coord.GetSession(sessionID); !ok {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", err, logging.Fields{constants.LogFieldSessionID: sessionID})
		return
	}
	h.serve(sessionID, &conn{ws: ws})
}

func (h *Handler) serve(sessionID string, cn *conn) {
	events, cancel := h.bus.Subscribe(sessionID)
	defer cancel()
	defer cn.ws.Close()

	// Initial snapshot so a reconnecting client does not have to wait for
	// the next mutation.
	if d, ok := h.coord.GetSession(sessionID); ok {
		if err := cn.writeJSON(service.Event{Type: service.EventSessionStateChanged, SessionID: sessionID, Payload: d}); err != nil {
			return
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			if err := cn.writeJSON(ev); err != nil {
				return
			}
		}
	}()

	// The participant this socket joined as, if any. Used to release the
	// seat when the connection drops.
	joinedID := ""

	for {
		_, payload, err := cn.ws.ReadMessage()
		if err != nil {
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			logging.Warn("discarding malformed session message", logging.Fields{constants.LogFieldSessionID: sessionID})
			continue
		}

		switch msg.Type {
		case "join":
			kit, ok := h.repo.KitByName(msg.Creature)
			if !ok {
				h.replyError(cn, sessionID, "creature not found")
				continue
			}
			if msg.PlayerID == "" {
				h.replyError(cn, sessionID, "player_id is required")
				continue
			}
			combatant := kit.NewCombatant(msg.PlayerName, game.Position{})
			if err := h.coord.Join(sessionID, service.ParticipantInfo{
				ID:        msg.PlayerID,
				Name:      msg.PlayerName,
				Combatant: combatant,
			}); err != nil {
				h.replyError(cn, sessionID, err.Error())
				continue
			}
			joinedID = msg.PlayerID
		case "ready":
			h.coord.SetReady(sessionID, msg.PlayerID)
		case "leave":
			h.coord.Leave(sessionID, msg.PlayerID)
			if msg.PlayerID == joinedID {
				joinedID = ""
			}
		case "use-ability":
			// Turn errors fan out on the bus; nothing to do here.
			_, _ = h.coord.SubmitTurn(sessionID, msg.AttackerID, msg.DefenderID, msg.AbilityID, nil)
		case "move":
			pos := game.Position{X: msg.X, Y: msg.Y}
			_, _ = h.coord.SubmitTurn(sessionID, msg.AttackerID, "", "", &pos)
		default:
			logging.Warn("unknown session message type", logging.Fields{constants.LogFieldSessionID: sessionID, "type": msg.Type})
		}
	}

	if joinedID != "" {
		h.coord.Leave(sessionID, joinedID)
	}
	cancel()
	<-done
}

// replyError answers only the offending socket; bus errors from turn
// resolution reach every subscriber instead.
func (h *Handler) replyError(cn *conn, sessionID, msg string) {
	_ = cn.writeJSON(service.Event{Type: service.EventError, SessionID: sessionID, Payload: msg})
}
