package engine

import "math/rand"

type PlayerState struct {
	Hand        []Card
	WonCards    []Card
	TotalPoints int
}

type TrickEntry struct {
	PlayerID string
	Card     Card
}

// GameState holds everything one room's game needs. It is mutated only by the
// room actor that owns it.
type GameState struct {
	Players            map[string]*PlayerState
	TurnOrder          []string // fixed once the game starts
	CurrentPlayerIndex int
	CurrentTrick       []TrickEntry
	TrickHistory       [][]TrickEntry
	HeartsBroken       bool
	RoundComplete      bool
	Over               bool
	ScoreLimit         int
}

func NewGame(turnOrder []string, scoreLimit int) *GameState {
	if scoreLimit <= 0 {
		scoreLimit = DefaultScoreLimit
	}
	players := make(map[string]*PlayerState, len(turnOrder))
	for _, id := range turnOrder {
		players[id] = &PlayerState{}
	}
	return &GameState{
		Players:    players,
		TurnOrder:  append([]string(nil), turnOrder...),
		ScoreLimit: scoreLimit,
	}
}

// StartRound deals fresh hands, resets all per-round state, and hands the
// lead to whoever was dealt the 2 of clubs.
func (g *GameState) StartRound(rng *rand.Rand) {
	hands := Deal(Shuffle(BuildDeck(), rng))
	for i, id := range g.TurnOrder {
		p := g.Players[id]
		p.Hand = hands[i]
		p.WonCards = nil
	}
	g.CurrentTrick = nil
	g.TrickHistory = nil
	g.HeartsBroken = false
	g.RoundComplete = false
	for i, id := range g.TurnOrder {
		if handContains(g.Players[id].Hand, TwoOfClubs) {
			g.CurrentPlayerIndex = i
			break
		}
	}
}

func (g *GameState) CurrentPlayerID() string {
	return g.TurnOrder[g.CurrentPlayerIndex]
}

func (g *GameState) handsEmpty() bool {
	for _, p := range g.Players {
		if len(p.Hand) > 0 {
			return false
		}
	}
	return true
}
