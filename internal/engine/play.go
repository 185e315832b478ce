package engine

type EventType string

const (
	EvtCardPlayed   EventType = "CardPlayed"
	EvtTurnAdvanced EventType = "TurnAdvanced"
	EvtTrickWon     EventType = "TrickWon"
	EvtRoundEnded   EventType = "RoundEnded"
	EvtGameOver     EventType = "GameOver"
)

type Event struct {
	Type     EventType
	PlayerID string
	Card     Card
	Trick    []TrickEntry
	Points   int
	Scores   map[string]int
	Totals   map[string]int
}

// PlayCard applies one play for playerID and returns the events it produced,
// in order. On any failure the state is left exactly as it was.
func PlayCard(g *GameState, playerID string, card Card) ([]Event, error) {
	if g.Over {
		return nil, ErrGameFinished
	}
	if g.RoundComplete {
		return nil, ErrRoundComplete
	}
	if err := Validate(g, playerID, card); err != nil {
		return nil, err
	}

	removeCard(&g.Players[playerID].Hand, card)
	g.CurrentTrick = append(g.CurrentTrick, TrickEntry{PlayerID: playerID, Card: card})
	if card.Suit == SuitHearts && !g.HeartsBroken {
		g.HeartsBroken = true
	}
	events := []Event{{
		Type:     EvtCardPlayed,
		PlayerID: playerID,
		Card:     card,
		Trick:    append([]TrickEntry(nil), g.CurrentTrick...),
	}}

	if len(g.CurrentTrick) < NumPlayers {
		g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % NumPlayers
		events = append(events, Event{Type: EvtTurnAdvanced, PlayerID: g.CurrentPlayerID()})
		return events, nil
	}

	// Fourth card down: resolve the trick. The winner collects all four cards
	// and leads the next trick.
	trick := g.CurrentTrick
	winner := TrickWinner(trick)
	g.TrickHistory = append(g.TrickHistory, trick)
	wp := g.Players[winner]
	for _, e := range trick {
		wp.WonCards = append(wp.WonCards, e.Card)
	}
	g.CurrentTrick = nil
	g.CurrentPlayerIndex = indexOf(g.TurnOrder, winner)
	events = append(events, Event{
		Type:     EvtTrickWon,
		PlayerID: winner,
		Trick:    trick,
		Points:   TrickPoints(trick),
	})

	if !g.handsEmpty() {
		events = append(events, Event{Type: EvtTurnAdvanced, PlayerID: winner})
		return events, nil
	}

	// All thirteen tricks resolved: score the round.
	scores := RoundScores(g)
	totals := make(map[string]int, len(scores))
	for id, s := range scores {
		g.Players[id].TotalPoints += s
		totals[id] = g.Players[id].TotalPoints
	}
	g.RoundComplete = true
	events = append(events, Event{Type: EvtRoundEnded, Scores: scores, Totals: totals})

	for _, total := range totals {
		if total >= g.ScoreLimit {
			g.Over = true
			break
		}
	}
	if g.Over {
		events = append(events, Event{Type: EvtGameOver, Totals: totals})
	}
	return events, nil
}
