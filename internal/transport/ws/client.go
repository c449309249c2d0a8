package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-sokoban/internal/game"
	"github.com/vovakirdan/tui-sokoban/internal/progress"
	"github.com/vovakirdan/tui-sokoban/internal/sokoban"
)

// Request types sent by clients.
const (
	TypeMove    = "move"    // {"type":"move","direction":"up"}
	TypeRestart = "restart" // {"type":"restart"}
	TypeLoad    = "load"    // {"type":"load","level":"easy"}
	TypeState   = "state"   // {"type":"state"}; also the type of state replies
	TypeError   = "error"
)

// Request is a message from the client.
type Request struct {
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty"`
	Level     string `json:"level,omitempty"`
}

// Response is a message to the client: the board state after a request,
// or an error. Board fields are inlined from game.State.
type Response struct {
	Type string `json:"type"`
	*game.State
	Result  string   `json:"result,omitempty"` // Outcome of a move: Walked, Pushed or Blocked
	Outcome *Outcome `json:"outcome,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Outcome reports what completing the level changed.
type Outcome struct {
	Steps        int   `json:"steps"`
	ElapsedMS    int64 `json:"elapsed_ms"`
	PersonalBest bool  `json:"personal_best"`
	NewRecord    bool  `json:"new_record"`
	Saved        bool  `json:"saved"`
}

func errorResponse(msg string) Response {
	return Response{Type: TypeError, Error: msg}
}

// client is one WebSocket connection and the session it plays.
// The session is only touched by readPump.
type client struct {
	server  *Server
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{} // Closed when writePump exits
	session *game.Session
	profile *progress.Profile
	logger  *log.Logger
}

// handle applies one request and returns the reply.
func (c *client) handle(data []byte) Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse("invalid request: " + err.Error())
	}

	switch req.Type {
	case TypeMove:
		dir, err := sokoban.ParseDirection(req.Direction)
		if err != nil {
			return errorResponse(err.Error())
		}
		res := c.session.Move(dir)
		resp := c.stateResponse(res.String())
		if res.Accepted() && c.session.Completed() {
			resp.Outcome = c.record()
		}
		return resp

	case TypeRestart:
		c.session.Restart()
		return c.stateResponse("")

	case TypeLoad:
		session, err := game.Load(c.server.levels, req.Level)
		if err != nil {
			return errorResponse(err.Error())
		}
		c.session = session
		c.logger.Debug("level loaded", "level", req.Level)
		return c.stateResponse("")

	case TypeState:
		return c.stateResponse("")
	}

	return errorResponse(fmt.Sprintf("unknown request type %q", req.Type))
}

// record saves the finished run.
func (c *client) record() *Outcome {
	info := c.session.Info()
	out, err := c.server.recorder.Record(c.profile, info.ID, c.session.Steps(), c.session.Elapsed())
	if err != nil {
		c.logger.Error("could not save progress", "level", info.ID, "error", err)
	}
	return &Outcome{
		Steps:        out.Steps,
		ElapsedMS:    out.Elapsed.Milliseconds(),
		PersonalBest: out.PersonalBest,
		NewRecord:    out.NewRecord,
		Saved:        err == nil,
	}
}

func (c *client) stateResponse(result string) Response {
	state := c.session.Snapshot()
	return Response{
		Type:   TypeState,
		State:  &state,
		Result: result,
	}
}

// reply queues a response for writePump.
func (c *client) reply(resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.Error("could not encode response", "error", err)
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	}
}

// readPump reads requests until the connection fails, answering each one.
func (c *client) readPump() {
	defer func() {
		close(c.send)
		c.conn.Close()
		c.logger.Info("client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket error", "error", err)
			}
			return
		}
		c.reply(c.handle(data))
	}
}

// writePump writes queued responses and keeps the connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// readPump closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
