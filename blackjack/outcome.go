package blackjack

// Outcome of one seat against the dealer.
type Outcome byte

const (
	OutcomeBusted     Outcome = 1 // lost, player busted
	OutcomeWin        Outcome = 2
	OutcomeTie        Outcome = 3
	OutcomeDealerWins Outcome = 4
)

var OutcomeDictionary = map[Outcome]string{
	OutcomeBusted:     "busted",
	OutcomeWin:        "win",
	OutcomeTie:        "tie",
	OutcomeDealerWins: "dealer_wins",
}

func (o Outcome) String() string {
	if s, ok := OutcomeDictionary[o]; ok {
		return s
	}
	return "unknown"
}

// Resolve compares a finished seat against the dealer's final score. A busted
// seat loses regardless of the dealer.
func Resolve(playerScore int, playerBusted bool, dealerScore int) Outcome {
	switch {
	case playerBusted || playerScore > BustLimit:
		return OutcomeBusted
	case dealerScore > BustLimit || playerScore > dealerScore:
		return OutcomeWin
	case playerScore == dealerScore:
		return OutcomeTie
	default:
		return OutcomeDealerWins
	}
}
