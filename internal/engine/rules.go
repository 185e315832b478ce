package engine

import "errors"

var (
	ErrNotYourTurn         = errors.New("not your turn")
	ErrCardNotInHand       = errors.New("card not in hand")
	ErrFirstTrickViolation = errors.New("first play must be the 2 of clubs")
	ErrHeartsNotBroken     = errors.New("cannot lead hearts until they are broken")
	ErrMustFollowSuit      = errors.New("must follow the lead suit")
	ErrRoundComplete       = errors.New("round already complete")
	ErrGameFinished        = errors.New("game is over")
)

// Validate checks a proposed play against the rules, in order, short-circuiting
// on the first violation. It never mutates state; the same rejected play checked
// twice fails the same way.
func Validate(g *GameState, playerID string, card Card) error {
	if g.CurrentPlayerID() != playerID {
		return ErrNotYourTurn
	}
	p := g.Players[playerID]
	if !handContains(p.Hand, card) {
		return ErrCardNotInHand
	}
	if len(g.TrickHistory) == 0 && len(g.CurrentTrick) == 0 && card != TwoOfClubs {
		return ErrFirstTrickViolation
	}
	if len(g.CurrentTrick) == 0 {
		// Leading. Hearts may only open a trick once broken, unless the hand
		// holds nothing else.
		if card.Suit == SuitHearts && !g.HeartsBroken && !allHearts(p.Hand) {
			return ErrHeartsNotBroken
		}
		return nil
	}
	lead := g.CurrentTrick[0].Card.Suit
	if card.Suit != lead && hasSuit(p.Hand, lead) {
		return ErrMustFollowSuit
	}
	return nil
}

// LegalPlays lists the cards playerID could legally play right now. Empty when
// it is not their turn. Advisory only; Validate remains the authority.
func LegalPlays(g *GameState, playerID string) []Card {
	p, ok := g.Players[playerID]
	if !ok {
		return nil
	}
	var out []Card
	for _, c := range p.Hand {
		if Validate(g, playerID, c) == nil {
			out = append(out, c)
		}
	}
	return out
}

// TrickWinner returns the player who played the highest value of the trick's
// lead suit. Off-suit cards never win, whatever their value.
func TrickWinner(trick []TrickEntry) string {
	lead := trick[0].Card.Suit
	best := trick[0]
	for _, e := range trick[1:] {
		if e.Card.Suit == lead && e.Card.Value > best.Card.Value {
			best = e
		}
	}
	return best.PlayerID
}

// TrickPoints tallies the penalty points carried by a trick.
func TrickPoints(trick []TrickEntry) int {
	points := 0
	for _, e := range trick {
		points += cardPoints(e.Card)
	}
	return points
}

func handContains(hand []Card, card Card) bool {
	for _, c := range hand {
		if c == card {
			return true
		}
	}
	return false
}

func hasSuit(hand []Card, suit Suit) bool {
	for _, c := range hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

func allHearts(hand []Card) bool {
	for _, c := range hand {
		if c.Suit != SuitHearts {
			return false
		}
	}
	return true
}

func removeCard(hand *[]Card, card Card) bool {
	for i, c := range *hand {
		if c == card {
			*hand = append((*hand)[:i], (*hand)[i+1:]...)
			return true
		}
	}
	return false
}

func indexOf(order []string, id string) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return -1
}
