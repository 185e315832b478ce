package types

import (
	"errors"

	"github.com/itu-itis24-kececi24/Hearts/internal/engine"
)

// Client -> server intent types.
const (
	MsgCreateRoom  = "create_room"
	MsgJoinRoom    = "join_room"
	MsgLeaveRoom   = "leave_room"
	MsgStartGame   = "start_game"
	MsgPlayCard    = "play_card"
	MsgPlayerReady = "player_ready"
)

// Server -> client message types.
const (
	MsgLobbyList   = "lobby_list"
	MsgRoomUpdate  = "room_update"
	MsgGameStart   = "game_start"
	MsgTurnUpdate  = "turn_update"
	MsgCardPlayed  = "card_played"
	MsgTrickWon    = "trick_won"
	MsgRoundEnd    = "round_end"
	MsgAllReady    = "all_ready"
	MsgGameOver    = "game_over"
	MsgRoomCreated = "room_created"
	MsgJoined      = "joined"
	MsgPlayResult  = "play_result"
	MsgError       = "error"
)

type ClientMessage struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	RoomCode string `json:"roomCode,omitempty"`
	Card     *Card  `json:"card,omitempty"`
}

type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type Card struct {
	Suit  string `json:"suit"`
	Value int    `json:"value"`
}

type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RoomInfo struct {
	RoomCode    string `json:"roomCode"`
	PlayerCount int    `json:"playerCount"`
}

type TrickEntry struct {
	PlayerID string `json:"playerId"`
	Card     Card   `json:"card"`
}

type RoomCreated struct {
	RoomCode string `json:"roomCode"`
}

type JoinResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type GameStart struct {
	Hand    []Card       `json:"hand"`
	Players []PlayerInfo `json:"players"`
}

type TurnUpdate struct {
	CurrentPlayerID string `json:"currentPlayerId"`
}

type CardPlayed struct {
	PlayerID     string       `json:"playerId"`
	Card         Card         `json:"card"`
	Trick        []TrickEntry `json:"trick"`
	HeartsBroken bool         `json:"heartsBroken"`
}

type TrickWon struct {
	WinnerID string       `json:"winnerId"`
	Cards    []TrickEntry `json:"cards"`
	Points   int          `json:"points"`
}

type RoundEnd struct {
	Scores      map[string]int `json:"scores"`
	TotalScores map[string]int `json:"totalScores"`
}

type GameOver struct {
	FinalScores map[string]int `json:"finalScores"`
}

type PlayResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
}

// ToEngine converts a wire card into an engine card, rejecting anything that
// is not one of the 52 real cards.
func (c Card) ToEngine() (engine.Card, error) {
	suit := engine.Suit(c.Suit)
	if !suit.Valid() {
		return engine.Card{}, errors.New("invalid suit")
	}
	if c.Value < engine.MinValue || c.Value > engine.MaxValue {
		return engine.Card{}, errors.New("invalid card value")
	}
	return engine.Card{Suit: suit, Value: c.Value}, nil
}

func CardFromEngine(c engine.Card) Card {
	return Card{Suit: string(c.Suit), Value: c.Value}
}

func HandFromEngine(hand []engine.Card) []Card {
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		out = append(out, CardFromEngine(c))
	}
	return out
}

func TrickFromEngine(trick []engine.TrickEntry) []TrickEntry {
	out := make([]TrickEntry, 0, len(trick))
	for _, e := range trick {
		out = append(out, TrickEntry{PlayerID: e.PlayerID, Card: CardFromEngine(e.Card)})
	}
	return out
}
