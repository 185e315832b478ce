package ws

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/itu-itis24-kececi24/Hearts/internal/hub"
	"github.com/itu-itis24-kececi24/Hearts/internal/room"
	"github.com/itu-itis24-kececi24/Hearts/pkg/types"
)

const (
	outboxSize   = 32
	writeTimeout = 3 * time.Second
)

// Handler upgrades each connection, registers it with the hub, and pumps
// intents into the actors. One handler invocation == one participant.
func Handler(h *hub.Hub, originPatterns []string, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := randID(8)
		out := make(chan types.ServerMessage, outboxSize)
		h.Inbox() <- hub.RegisterClient{ID: clientID, Outbox: out}

		c := &client{
			id:   clientID,
			hub:  h,
			out:  out,
			conn: conn,
			log:  log.With(zap.String("client", clientID)),
		}
		defer c.cleanup()

		// Writer goroutine: drains the outbox until the connection goes away.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go c.writeLoop(writeCtx)

		c.readLoop(r.Context())
	}
}

type client struct {
	id   string
	hub  *hub.Hub
	out  chan types.ServerMessage
	conn *websocket.Conn
	cur  *room.Room // room this client currently belongs to, if any
	log  *zap.Logger
}

func (c *client) cleanup() {
	if c.cur != nil {
		c.cur.Inbox() <- room.Leave{ID: c.id}
		c.cur = nil
	}
	c.hub.Inbox() <- hub.UnregisterClient{ID: c.id}
}

func (c *client) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.out:
			payload, err := json.Marshal(msg)
			if err != nil {
				c.log.Error("marshal server message", zap.Error(err))
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			_ = c.conn.Write(wctx, websocket.MessageText, payload)
			cancel()
		}
	}
}

func (c *client) readLoop(ctx context.Context) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			return
		}

		var cm types.ClientMessage
		if err := json.Unmarshal(data, &cm); err != nil {
			c.sendError("invalid json")
			continue
		}
		c.handle(ctx, cm)
	}
}

func (c *client) handle(ctx context.Context, cm types.ClientMessage) {
	switch cm.Type {
	case types.MsgCreateRoom:
		c.createRoom(ctx, cm.Username)
	case types.MsgJoinRoom:
		c.joinRoom(ctx, cm.RoomCode, cm.Username)
	case types.MsgLeaveRoom:
		if c.cur != nil {
			c.cur.Inbox() <- room.Leave{ID: c.id}
			c.cur = nil
		}
	case types.MsgStartGame:
		if c.cur != nil {
			c.cur.Inbox() <- room.StartGame{ID: c.id}
		}
	case types.MsgPlayCard:
		c.playCard(cm.Card)
	case types.MsgPlayerReady:
		if c.cur != nil {
			c.cur.Inbox() <- room.Ready{ID: c.id}
		}
	default:
		c.sendError("unknown message type")
	}
}

func (c *client) createRoom(ctx context.Context, username string) {
	if c.cur != nil {
		c.sendError("already in a room")
		return
	}
	reply := make(chan hub.CreateReply, 1)
	c.hub.Inbox() <- hub.CreateRoom{Reply: reply}
	cr := <-reply

	if err := cr.Room.Join(ctx, c.id, username, c.out); err != nil {
		c.sendError(err.Error())
		return
	}
	c.cur = cr.Room
	c.send(types.ServerMessage{Type: types.MsgRoomCreated, Payload: types.RoomCreated{RoomCode: cr.Code}})
}

func (c *client) joinRoom(ctx context.Context, code, username string) {
	if c.cur != nil {
		c.send(types.ServerMessage{Type: types.MsgJoined, Payload: types.JoinResult{Error: "already in a room"}})
		return
	}
	reply := make(chan *room.Room, 1)
	c.hub.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
	rm := <-reply
	if rm == nil {
		c.send(types.ServerMessage{Type: types.MsgJoined, Payload: types.JoinResult{Error: "room not found"}})
		return
	}

	if err := rm.Join(ctx, c.id, username, c.out); err != nil {
		msg := "could not join room"
		switch {
		case errors.Is(err, room.ErrRoomFull):
			msg = "room full"
		case errors.Is(err, room.ErrRoomClosed):
			// The room emptied out and was removed between lookup and join.
			msg = "room not found"
		}
		c.send(types.ServerMessage{Type: types.MsgJoined, Payload: types.JoinResult{Error: msg}})
		return
	}
	c.cur = rm
	c.send(types.ServerMessage{Type: types.MsgJoined, Payload: types.JoinResult{Success: true}})
}

func (c *client) playCard(card *types.Card) {
	if c.cur == nil {
		c.playRejected("not in a room")
		return
	}
	if card == nil {
		c.playRejected("card required")
		return
	}
	ec, err := card.ToEngine()
	if err != nil {
		c.playRejected(err.Error())
		return
	}
	reply := make(chan error, 1)
	c.cur.Inbox() <- room.PlayCard{ID: c.id, Card: ec, Reply: reply}
	if err := <-reply; err != nil {
		c.playRejected(err.Error())
		return
	}
	c.send(types.ServerMessage{Type: types.MsgPlayResult, Payload: types.PlayResult{Success: true}})
}

func (c *client) playRejected(msg string) {
	c.send(types.ServerMessage{Type: types.MsgPlayResult, Payload: types.PlayResult{Error: msg}})
}

func (c *client) sendError(msg string) {
	c.send(types.ServerMessage{Type: types.MsgError, Payload: types.ErrorInfo{Message: msg}})
}

func (c *client) send(msg types.ServerMessage) {
	select {
	case c.out <- msg:
	default:
		// Writer stalled; the read side will notice the dead connection.
	}
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
