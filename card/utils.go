package card

// ParseList parses a ", " separated card list as produced by CardList.Join.
// Surrounding brackets are tolerated.
func ParseList(s string) (CardList, error) {
	s = trimBrackets(s)
	if s == "" {
		return CardList{}, nil
	}
	var out CardList
	start := 0
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != ',' {
			continue
		}
		c, err := Parse(s[start:i])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
		start = i + 1
	}
	return out, nil
}

func trimBrackets(s string) string {
	for len(s) > 0 && (s[0] == '[' || s[0] == ' ') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == ']' || s[len(s)-1] == ' ') {
		s = s[:len(s)-1]
	}
	return s
}
