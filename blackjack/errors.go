package blackjack

import "errors"

var (
	ErrShoeExhausted = errors.New("shoe exhausted")
	ErrRoundAborted  = errors.New("round aborted")
)
