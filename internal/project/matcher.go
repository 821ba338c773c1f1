package project

// Matcher decides which account, if any, a transaction's project code links
// to. It is a strategy so the linking rule stays explicit and testable.
type Matcher interface {
	Match(code string, accounts []Account) *Account
}

// ExactMatcher links on exact, case-sensitive code equality only. Earlier
// substring fallbacks were dropped: a code that happened to appear inside an
// unrelated account's name could produce a false link, and a provably correct
// link is worth requiring clean data entry.
type ExactMatcher struct{}

func (ExactMatcher) Match(code string, accounts []Account) *Account {
	if code == "" {
		return nil
	}

	for i := range accounts {
		if accounts[i].Code == code {
			return &accounts[i]
		}
	}

	return nil
}
