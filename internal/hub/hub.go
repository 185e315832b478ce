package hub

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/itu-itis24-kececi24/Hearts/internal/room"
	"github.com/itu-itis24-kececi24/Hearts/pkg/types"
)

type HubMsg interface{ isHubMsg() }

// RegisterClient announces a connected participant; it immediately receives
// the current lobby list and every later refresh.
type RegisterClient struct {
	ID     string
	Outbox chan types.ServerMessage
}

type UnregisterClient struct{ ID string }

type CreateRoom struct {
	Reply chan CreateReply
}

type CreateReply struct {
	Code string
	Room *room.Room
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

// RoomChanged is pushed by a room (via its OnChange hook) after any
// membership change.
type RoomChanged struct {
	Code    string
	Players int
}

type ListRooms struct {
	Reply chan []types.RoomInfo
}

type ShutdownHub struct{}

func (RegisterClient) isHubMsg()   {}
func (UnregisterClient) isHubMsg() {}
func (CreateRoom) isHubMsg()       {}
func (GetRoom) isHubMsg()          {}
func (RoomChanged) isHubMsg()      {}
func (ListRooms) isHubMsg()        {}
func (ShutdownHub) isHubMsg()      {}

type Config struct {
	ScoreLimit int
	Logger     *zap.Logger
}

// Hub owns the roomCode -> room map and the set of connected clients. It is
// the only writer of either; everything goes through its inbox.
type Hub struct {
	inbox   chan HubMsg
	rooms   map[string]*room.Room
	counts  map[string]int
	clients map[string]chan types.ServerMessage

	scoreLimit int
	log        *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, cfg Config) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	h := &Hub{
		inbox:      make(chan HubMsg, 64),
		rooms:      make(map[string]*room.Room),
		counts:     make(map[string]int),
		clients:    make(map[string]chan types.ServerMessage),
		scoreLimit: cfg.ScoreLimit,
		log:        cfg.Logger,
		ctx:        ctx,
		cancel:     cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case RegisterClient:
				h.clients[msg.ID] = msg.Outbox
				h.sendLobbyList(msg.ID)

			case UnregisterClient:
				delete(h.clients, msg.ID)

			case CreateRoom:
				code := h.newCode()
				rm := room.New(h.ctx, code, room.Config{
					Rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
					ScoreLimit: h.scoreLimit,
					Logger:     h.log,
					OnChange:   h.roomChanged,
				})
				h.rooms[code] = rm
				h.counts[code] = 0
				h.log.Info("room created", zap.String("room", code))
				msg.Reply <- CreateReply{Code: code, Room: rm}

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code] // may be nil

			case RoomChanged:
				if _, ok := h.rooms[msg.Code]; !ok {
					break
				}
				h.counts[msg.Code] = msg.Players
				if msg.Players == 0 {
					h.rooms[msg.Code].Stop()
					delete(h.rooms, msg.Code)
					delete(h.counts, msg.Code)
					h.log.Info("room removed", zap.String("room", msg.Code))
				}
				h.broadcastLobbyList()

			case ListRooms:
				msg.Reply <- h.openRooms()

			case ShutdownHub:
				for _, rm := range h.rooms {
					rm.Stop()
				}
				clear(h.rooms)
				clear(h.counts)
				h.cancel()
				return
			}
		}
	}
}

// roomChanged runs on a room goroutine; it only forwards into the hub inbox.
func (h *Hub) roomChanged(code string, players int) {
	select {
	case h.inbox <- RoomChanged{Code: code, Players: players}:
	case <-h.ctx.Done():
	}
}

// openRooms lists the rooms a new player could still join: 1-3 members.
func (h *Hub) openRooms() []types.RoomInfo {
	out := make([]types.RoomInfo, 0, len(h.counts))
	for code, n := range h.counts {
		if n >= 1 && n < 4 {
			out = append(out, types.RoomInfo{RoomCode: code, PlayerCount: n})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomCode < out[j].RoomCode })
	return out
}

func (h *Hub) sendLobbyList(clientID string) {
	ch, ok := h.clients[clientID]
	if !ok {
		return
	}
	msg := types.ServerMessage{Type: types.MsgLobbyList, Payload: h.openRooms()}
	select {
	case ch <- msg:
	default:
		delete(h.clients, clientID)
	}
}

func (h *Hub) broadcastLobbyList() {
	msg := types.ServerMessage{Type: types.MsgLobbyList, Payload: h.openRooms()}
	for id, ch := range h.clients {
		select {
		case ch <- msg:
		default:
			// Slow or gone; the ws handler unregisters on disconnect anyway.
			delete(h.clients, id)
		}
	}
}
