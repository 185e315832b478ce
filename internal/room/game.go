package room

import (
	"go.uber.org/zap"

	"github.com/itu-itis24-kececi24/Hearts/internal/engine"
	"github.com/itu-itis24-kececi24/Hearts/pkg/types"
)

// handleStart deals either the first round (exactly four players present) or,
// once the ready gate has fired, the next round of a running game. Anything
// else is ignored; the engine never deals on its own.
func (r *Room) handleStart(requesterID string) {
	if _, ok := r.clients[requesterID]; !ok {
		return
	}
	switch {
	case r.game == nil:
		if len(r.members) != engine.NumPlayers {
			r.log.Debug("start refused, need four players", zap.Int("players", len(r.members)))
			return
		}
		order := make([]string, 0, engine.NumPlayers)
		for _, m := range r.members {
			order = append(order, m.ID)
		}
		r.game = engine.NewGame(order, r.scoreLimit)
	case r.game.RoundComplete && !r.game.Over && r.armed:
		// next round, same turn order
	default:
		return
	}

	r.armed = false
	r.ready = make(map[string]bool)
	r.game.StartRound(r.rng)

	players := make([]types.PlayerInfo, 0, len(r.members))
	for _, m := range r.members {
		players = append(players, types.PlayerInfo{ID: m.ID, Name: m.Name})
	}
	// Each player sees only their own hand. Drops wait until every hand is
	// out; removeMember discards the game, so it must not run mid-deal.
	var dropped []string
	for _, m := range r.members {
		msg := types.ServerMessage{Type: types.MsgGameStart, Payload: types.GameStart{
			Hand:    types.HandFromEngine(r.game.Players[m.ID].Hand),
			Players: players,
		}}
		select {
		case r.clients[m.ID] <- msg:
		default:
			dropped = append(dropped, m.ID)
		}
	}
	for _, id := range dropped {
		r.log.Warn("dropping slow client", zap.String("player", id))
		r.removeMember(id)
	}
	if r.game == nil {
		return
	}
	r.broadcast(types.ServerMessage{Type: types.MsgTurnUpdate, Payload: types.TurnUpdate{
		CurrentPlayerID: r.game.CurrentPlayerID(),
	}})
}

func (r *Room) handlePlay(msg PlayCard) {
	if r.game == nil {
		msg.Reply <- ErrNoGame
		return
	}
	if _, ok := r.clients[msg.ID]; !ok {
		msg.Reply <- ErrNotMember
		return
	}
	events, err := engine.PlayCard(r.game, msg.ID, msg.Card)
	if err != nil {
		msg.Reply <- err
		return
	}
	msg.Reply <- nil
	r.fanout(events)
}

// fanout translates engine events into the broadcasts the clients see.
func (r *Room) fanout(events []engine.Event) {
	for _, ev := range events {
		switch ev.Type {
		case engine.EvtCardPlayed:
			r.broadcast(types.ServerMessage{Type: types.MsgCardPlayed, Payload: types.CardPlayed{
				PlayerID:     ev.PlayerID,
				Card:         types.CardFromEngine(ev.Card),
				Trick:        types.TrickFromEngine(ev.Trick),
				HeartsBroken: r.game.HeartsBroken,
			}})

		case engine.EvtTurnAdvanced:
			r.broadcast(types.ServerMessage{Type: types.MsgTurnUpdate, Payload: types.TurnUpdate{
				CurrentPlayerID: ev.PlayerID,
			}})

		case engine.EvtTrickWon:
			r.broadcast(types.ServerMessage{Type: types.MsgTrickWon, Payload: types.TrickWon{
				WinnerID: ev.PlayerID,
				Cards:    types.TrickFromEngine(ev.Trick),
				Points:   ev.Points,
			}})

		case engine.EvtRoundEnded:
			r.ready = make(map[string]bool)
			r.broadcast(types.ServerMessage{Type: types.MsgRoundEnd, Payload: types.RoundEnd{
				Scores:      ev.Scores,
				TotalScores: ev.Totals,
			}})

		case engine.EvtGameOver:
			r.log.Info("game over")
			r.broadcast(types.ServerMessage{Type: types.MsgGameOver, Payload: types.GameOver{
				FinalScores: ev.Totals,
			}})
		}
	}
}
