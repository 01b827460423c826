package blackjack

import "blackjack-lite/card"

// Score is the best value of the cards: aces count 11 and drop to 1 one at a
// time while the total is over 21.
func Score(cards []card.Card) int {
	total, _ := scoreSoft(cards)
	return total
}

// IsSoft reports whether an ace is still counted as 11 in the best score.
func IsSoft(cards []card.Card) bool {
	_, soft := scoreSoft(cards)
	return soft > 0
}

func IsBust(cards []card.Card) bool {
	return Score(cards) > BustLimit
}

// IsBlackjack is a two-card 21.
func IsBlackjack(cards []card.Card) bool {
	return len(cards) == 2 && Score(cards) == BustLimit
}

func scoreSoft(cards []card.Card) (total, soft int) {
	for _, c := range cards {
		total += c.Points()
		if c.IsAce() {
			soft++
		}
	}
	for total > BustLimit && soft > 0 {
		total -= 10
		soft--
	}
	return total, soft
}
