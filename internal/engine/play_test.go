package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayCardRejectionLeavesStateUntouched(t *testing.T) {
	g := riggedGame(map[string][]Card{
		"p1": {{SuitClubs, 2}, {SuitHearts, 5}},
		"p2": {{SuitClubs, 9}},
	})

	for i := 0; i < 3; i++ {
		events, err := PlayCard(g, "p1", Card{SuitHearts, 5})
		require.ErrorIs(t, err, ErrFirstTrickViolation)
		assert.Nil(t, events)
		assert.Len(t, g.Players["p1"].Hand, 2)
		assert.Empty(t, g.CurrentTrick)
		assert.False(t, g.HeartsBroken)
	}
}

func TestPlayCardAdvancesTurn(t *testing.T) {
	g := riggedGame(map[string][]Card{
		"p1": {{SuitClubs, 2}},
		"p2": {{SuitClubs, 9}},
	})

	events, err := PlayCard(g, "p1", Card{SuitClubs, 2})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EvtCardPlayed, events[0].Type)
	assert.Equal(t, EvtTurnAdvanced, events[1].Type)
	assert.Equal(t, "p2", events[1].PlayerID)
	assert.Equal(t, "p2", g.CurrentPlayerID())
	assert.Empty(t, g.Players["p1"].Hand)
}

func TestHeartsBreakOnFirstHeartPlayed(t *testing.T) {
	g := riggedGame(map[string][]Card{
		"p2": {{SuitHearts, 7}},
	})
	pastFirstTrick(g)
	g.CurrentTrick = []TrickEntry{{PlayerID: "p1", Card: Card{SuitDiamonds, 4}}}
	g.CurrentPlayerIndex = 1

	_, err := PlayCard(g, "p2", Card{SuitHearts, 7})
	require.NoError(t, err)
	assert.True(t, g.HeartsBroken)
}

func TestTrickResolutionWinnerLeadsNext(t *testing.T) {
	g := riggedGame(map[string][]Card{
		"p1": {{SuitClubs, 2}, {SuitDiamonds, 2}},
		"p2": {{SuitClubs, 9}, {SuitDiamonds, 3}},
		"p3": {{SuitClubs, 14}, {SuitDiamonds, 4}},
		"p4": {{SuitClubs, 5}, {SuitDiamonds, 5}},
	})

	plays := []struct {
		player string
		card   Card
	}{
		{"p1", Card{SuitClubs, 2}},
		{"p2", Card{SuitClubs, 9}},
		{"p3", Card{SuitClubs, 14}},
	}
	for _, p := range plays {
		_, err := PlayCard(g, p.player, p.card)
		require.NoError(t, err)
	}

	events, err := PlayCard(g, "p4", Card{SuitClubs, 5})
	require.NoError(t, err)

	var won *Event
	for i := range events {
		if events[i].Type == EvtTrickWon {
			won = &events[i]
		}
	}
	require.NotNil(t, won)
	assert.Equal(t, "p3", won.PlayerID)
	assert.Equal(t, 0, won.Points)
	assert.Equal(t, "p3", g.CurrentPlayerID())
	assert.Len(t, g.Players["p3"].WonCards, 4)
	assert.Len(t, g.TrickHistory, 1)
	assert.Empty(t, g.CurrentTrick)
}

// playFinalTrick drives a rigged one-card-per-hand final trick to round end.
func playFinalTrick(t *testing.T, g *GameState) []Event {
	t.Helper()
	var last []Event
	for i := 0; i < NumPlayers; i++ {
		id := g.CurrentPlayerID()
		plays := LegalPlays(g, id)
		require.NotEmpty(t, plays, "no legal play for %s", id)
		events, err := PlayCard(g, id, plays[0])
		require.NoError(t, err)
		last = events
	}
	return last
}

func TestRoundEndScoresSumTo26(t *testing.T) {
	g := riggedGame(map[string][]Card{
		"p1": {{SuitClubs, 10}},
		"p2": {{SuitClubs, 14}},
		"p3": {{SuitHearts, 4}},
		"p4": {{SuitSpades, 12}},
	})
	pastFirstTrick(g)
	// Earlier tricks already split the remaining hearts between p1 and p2;
	// the 4 of hearts is still in p3's hand.
	for v := 2; v <= 13; v++ {
		if v != 4 {
			g.Players["p1"].WonCards = append(g.Players["p1"].WonCards, Card{SuitHearts, v})
		}
	}
	g.Players["p2"].WonCards = append(g.Players["p2"].WonCards, Card{SuitHearts, 14})

	events := playFinalTrick(t, g)

	var end *Event
	for i := range events {
		if events[i].Type == EvtRoundEnded {
			end = &events[i]
		}
	}
	require.NotNil(t, end)
	require.True(t, g.RoundComplete)

	sum := 0
	for _, s := range end.Scores {
		sum += s
	}
	assert.Equal(t, PointsPerRound, sum)
	// p2 took the final trick with the ace of clubs, collecting the heart and
	// the queen of spades played into it.
	assert.Equal(t, 11, end.Scores["p1"])
	assert.Equal(t, 15, end.Scores["p2"])
	assert.Equal(t, 0, end.Scores["p3"])
	assert.Equal(t, 0, end.Scores["p4"])
}

func TestMoonShotScoring(t *testing.T) {
	g := riggedGame(map[string][]Card{
		"p1": {{SuitClubs, 10}},
		"p2": {{SuitClubs, 14}},
		"p3": {{SuitHearts, 4}},
		"p4": {{SuitSpades, 12}},
	})
	pastFirstTrick(g)
	// p2 has captured every other penalty card already; taking the final
	// trick gives them all 26 points.
	for v := 2; v <= 14; v++ {
		if v != 4 {
			g.Players["p2"].WonCards = append(g.Players["p2"].WonCards, Card{SuitHearts, v})
		}
	}

	events := playFinalTrick(t, g)

	var end *Event
	for i := range events {
		if events[i].Type == EvtRoundEnded {
			end = &events[i]
		}
	}
	require.NotNil(t, end)
	assert.Equal(t, 0, end.Scores["p2"])
	assert.Equal(t, PointsPerRound, end.Scores["p1"])
	assert.Equal(t, PointsPerRound, end.Scores["p3"])
	assert.Equal(t, PointsPerRound, end.Scores["p4"])
}

func TestGameOverAtScoreLimit(t *testing.T) {
	g := riggedGame(map[string][]Card{
		"p1": {{SuitClubs, 10}},
		"p2": {{SuitClubs, 14}},
		"p3": {{SuitHearts, 4}},
		"p4": {{SuitSpades, 12}},
	})
	pastFirstTrick(g)
	g.Players["p2"].TotalPoints = 90

	events := playFinalTrick(t, g)

	last := events[len(events)-1]
	require.Equal(t, EvtGameOver, last.Type)
	assert.True(t, g.Over)
	assert.GreaterOrEqual(t, last.Totals["p2"], g.ScoreLimit)

	// No further plays accepted.
	_, err := PlayCard(g, g.CurrentPlayerID(), Card{SuitClubs, 3})
	assert.ErrorIs(t, err, ErrGameFinished)
}

// TestFullRoundConservation plays complete rounds with the first legal card
// each turn and checks the card-conservation and scoring invariants.
func TestFullRoundConservation(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		g := NewGame(testOrder, DefaultScoreLimit)
		g.StartRound(rand.New(rand.NewSource(seed)))

		var roundEnd *Event
		for !g.RoundComplete {
			id := g.CurrentPlayerID()
			plays := LegalPlays(g, id)
			require.NotEmpty(t, plays, "seed %d: no legal play for %s", seed, id)
			events, err := PlayCard(g, id, plays[0])
			require.NoError(t, err)
			for i := range events {
				if events[i].Type == EvtRoundEnded {
					roundEnd = &events[i]
				}
			}
		}

		require.NotNil(t, roundEnd)
		require.Len(t, g.TrickHistory, HandSize)

		captured := map[Card]bool{}
		for _, p := range g.Players {
			assert.Empty(t, p.Hand)
			for _, c := range p.WonCards {
				require.False(t, captured[c], "seed %d: card %v captured twice", seed, c)
				captured[c] = true
			}
		}
		assert.Len(t, captured, DeckSize)

		sum := 0
		zeros := 0
		for _, s := range roundEnd.Scores {
			sum += s
			if s == 0 {
				zeros++
			}
		}
		if sum == 3*PointsPerRound {
			// moon shot split: 0 + 26 + 26 + 26
			assert.Equal(t, 1, zeros, "seed %d", seed)
		} else {
			assert.Equal(t, PointsPerRound, sum, "seed %d", seed)
		}
	}
}

func TestNextRoundAccumulatesTotals(t *testing.T) {
	g := NewGame(testOrder, DefaultScoreLimit)
	rng := rand.New(rand.NewSource(3))

	playRound := func() map[string]int {
		var end *Event
		for !g.RoundComplete {
			id := g.CurrentPlayerID()
			plays := LegalPlays(g, id)
			require.NotEmpty(t, plays)
			events, err := PlayCard(g, id, plays[0])
			require.NoError(t, err)
			for i := range events {
				if events[i].Type == EvtRoundEnded {
					end = &events[i]
				}
			}
		}
		require.NotNil(t, end)
		return end.Scores
	}

	g.StartRound(rng)
	first := playRound()

	g.StartRound(rng)
	require.False(t, g.RoundComplete)
	second := playRound()

	for _, id := range testOrder {
		assert.Equal(t, first[id]+second[id], g.Players[id].TotalPoints)
	}
}
