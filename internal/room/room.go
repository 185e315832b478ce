package room

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/itu-itis24-kececi24/Hearts/internal/engine"
	"github.com/itu-itis24-kececi24/Hearts/pkg/types"
)

var (
	ErrRoomFull   = errors.New("room full")
	ErrRoomClosed = errors.New("room closed")
	ErrNoGame     = errors.New("game not started")
	ErrNotMember  = errors.New("not a member of this room")
)

type Msg interface{ isRoomMsg() }

type Join struct {
	ID     string
	Name   string
	Outbox chan types.ServerMessage
	Reply  chan error
}

func (Join) isRoomMsg() {}

type Leave struct{ ID string }

func (Leave) isRoomMsg() {}

type StartGame struct{ ID string }

func (StartGame) isRoomMsg() {}

type PlayCard struct {
	ID    string
	Card  engine.Card
	Reply chan error
}

func (PlayCard) isRoomMsg() {}

type Ready struct{ ID string }

func (Ready) isRoomMsg() {}

type GetView struct {
	Reply chan View
}

func (GetView) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

type Member struct {
	ID   string
	Name string
}

// View is a flat snapshot for tests; it shares nothing with the live state.
type View struct {
	Code            string
	Members         []Member
	NumClients      int
	Started         bool
	RoundComplete   bool
	GameOver        bool
	CurrentPlayerID string
	HeartsBroken    bool
	ReadyCount      int
	NextRoundArmed  bool
}

// Config carries the room's collaborators. OnChange is called from the room
// goroutine after every membership change; the hub uses it to refresh the
// lobby list and to drop empty rooms.
type Config struct {
	Rand       *rand.Rand
	ScoreLimit int
	Logger     *zap.Logger
	OnChange   func(code string, players int)
}

// Room is the single owner of one game's state. All mutation happens on the
// actor goroutine, so intents against the same room are applied one at a
// time in arrival order.
type Room struct {
	inbox   chan Msg
	code    string
	members []Member
	clients map[string]chan types.ServerMessage

	game  *engine.GameState
	ready map[string]bool
	armed bool // ready gate fired; next start_game may deal

	rng        *rand.Rand
	scoreLimit int
	log        *zap.Logger
	onChange   func(code string, players int)

	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, code string, cfg Config) *Room {
	ctx, cancel := context.WithCancel(parent)
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.OnChange == nil {
		cfg.OnChange = func(string, int) {}
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	r := &Room{
		inbox:      make(chan Msg, 64),
		code:       code,
		clients:    make(map[string]chan types.ServerMessage),
		ready:      make(map[string]bool),
		rng:        cfg.Rand,
		scoreLimit: cfg.ScoreLimit,
		log:        cfg.Logger.With(zap.String("room", code)),
		onChange:   cfg.OnChange,
		ctx:        ctx,
		cancel:     cancel,
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) Code() string { return r.code }

// Stop shuts the actor down; pending state is discarded.
func (r *Room) Stop() { r.cancel() }

func (r *Room) loop() {
	defer r.drainInbox()
	for {
		select {
		case <-r.ctx.Done():
			return

		case m := <-r.inbox:
			if r.ctx.Err() != nil {
				r.answerClosed(m)
				return
			}
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)

			case Leave:
				r.removeMember(msg.ID)

			case StartGame:
				r.handleStart(msg.ID)

			case PlayCard:
				r.handlePlay(msg)

			case Ready:
				r.handleReady(msg.ID)

			case GetView:
				msg.Reply <- r.view()

			case Shutdown:
				r.cancel()
				return
			}
		}
	}
}

// drainInbox answers whatever was still queued when the actor stopped.
func (r *Room) drainInbox() {
	for {
		select {
		case m := <-r.inbox:
			r.answerClosed(m)
		default:
			return
		}
	}
}

func (r *Room) answerClosed(m Msg) {
	switch msg := m.(type) {
	case Join:
		msg.Reply <- ErrRoomClosed
	case PlayCard:
		msg.Reply <- ErrRoomClosed
	case GetView:
		msg.Reply <- View{}
	}
}

func (r *Room) handleJoin(msg Join) {
	if len(r.members) >= engine.NumPlayers {
		msg.Reply <- ErrRoomFull
		return
	}
	r.members = append(r.members, Member{ID: msg.ID, Name: msg.Name})
	r.clients[msg.ID] = msg.Outbox
	msg.Reply <- nil
	r.log.Info("player joined", zap.String("player", msg.ID), zap.Int("players", len(r.members)))
	r.broadcastRoomUpdate()
	r.onChange(r.code, len(r.members))
}

// removeMember handles both explicit leaves and disconnects. A round with a
// missing player can never finish, so an in-progress game is aborted and the
// room drops back to its lobby state.
func (r *Room) removeMember(id string) {
	idx := -1
	for i, m := range r.members {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	r.members = append(r.members[:idx], r.members[idx+1:]...)
	delete(r.clients, id)
	delete(r.ready, id)

	if r.game != nil && !r.game.Over {
		r.log.Warn("player left mid-game, aborting game", zap.String("player", id))
		r.game = nil
		r.ready = make(map[string]bool)
		r.armed = false
	}
	r.broadcastRoomUpdate()
	r.onChange(r.code, len(r.members))
}

func (r *Room) handleReady(id string) {
	if r.game == nil || !r.game.RoundComplete || r.game.Over {
		return
	}
	if _, ok := r.clients[id]; !ok {
		return
	}
	r.ready[id] = true
	if len(r.ready) == engine.NumPlayers {
		r.ready = make(map[string]bool)
		r.armed = true
		r.broadcast(types.ServerMessage{Type: types.MsgAllReady})
	}
}

func (r *Room) view() View {
	v := View{
		Code:           r.code,
		Members:        append([]Member(nil), r.members...),
		NumClients:     len(r.clients),
		Started:        r.game != nil,
		ReadyCount:     len(r.ready),
		NextRoundArmed: r.armed,
	}
	if r.game != nil {
		v.RoundComplete = r.game.RoundComplete
		v.GameOver = r.game.Over
		v.CurrentPlayerID = r.game.CurrentPlayerID()
		v.HeartsBroken = r.game.HeartsBroken
	}
	return v
}

func (r *Room) broadcastRoomUpdate() {
	players := make([]types.PlayerInfo, 0, len(r.members))
	for _, m := range r.members {
		players = append(players, types.PlayerInfo{ID: m.ID, Name: m.Name})
	}
	r.broadcast(types.ServerMessage{Type: types.MsgRoomUpdate, Payload: players})
}

// broadcast fans a message out to every member. A member whose outbox is full
// is treated as gone and removed, the same path as a disconnect.
func (r *Room) broadcast(msg types.ServerMessage) {
	var dropped []string
	for id, ch := range r.clients {
		select {
		case ch <- msg:
		default:
			dropped = append(dropped, id)
		}
	}
	for _, id := range dropped {
		r.log.Warn("dropping slow client", zap.String("player", id))
		r.removeMember(id)
	}
}

// Join adds a participant and waits for the outcome. It fails fast with
// ErrRoomClosed when the actor has stopped, so a caller holding a stale
// pointer is never left waiting on a reply that will not come.
func (r *Room) Join(ctx context.Context, id, name string, outbox chan types.ServerMessage) error {
	reply := make(chan error, 1)
	select {
	case r.inbox <- Join{ID: id, Name: name, Outbox: outbox, Reply: reply}:
	case <-r.ctx.Done():
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-r.ctx.Done():
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}
