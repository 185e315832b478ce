package engine

// RoundScores tallies each player's won cards: one point per heart, thirteen
// for the queen of spades. A player who captured all 26 shot the moon: their
// round score becomes 0 and every other player takes the full 26.
func RoundScores(g *GameState) map[string]int {
	scores := make(map[string]int, len(g.Players))
	shooter := ""
	for id, p := range g.Players {
		s := 0
		for _, c := range p.WonCards {
			s += cardPoints(c)
		}
		scores[id] = s
		if s == PointsPerRound {
			shooter = id
		}
	}
	if shooter != "" {
		for id := range scores {
			if id == shooter {
				scores[id] = 0
			} else {
				scores[id] = PointsPerRound
			}
		}
	}
	return scores
}

func cardPoints(c Card) int {
	if c.Suit == SuitHearts {
		return 1
	}
	if c == QueenOfSpades {
		return 13
	}
	return 0
}
