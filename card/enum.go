package card

import (
	"fmt"
	"strconv"
	"strings"
)

type Rank byte

const (
	RankAce Rank = iota + 1
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	RankTen
	RankJack
	RankQueen
	RankKing
)

func (r Rank) String() string {
	switch r {
	case RankAce:
		return "Ace"
	case RankJack:
		return "Jack"
	case RankQueen:
		return "Queen"
	case RankKing:
		return "King"
	}
	if r >= Rank2 && r <= RankTen {
		return strconv.Itoa(int(r))
	}
	return "?"
}

func ParseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "A", "ACE":
		return RankAce, nil
	case "J", "JACK":
		return RankJack, nil
	case "Q", "QUEEN":
		return RankQueen, nil
	case "K", "KING":
		return RankKing, nil
	case "T":
		return RankTen, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 2 || n > 10 {
		return 0, fmt.Errorf("invalid rank: %s", s)
	}
	return Rank(n), nil
}
