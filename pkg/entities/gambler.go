package entities

// Gambler is the single seated player. The bankroll itself lives in the
// ledger; the gambler carries identity and the standing wager.
type Gambler struct {
	Name      string
	AutoWager int64 // cents wagered automatically each round; 0 means cashed out
}

// NewGambler creates a gambler with the given standing wager
func NewGambler(name string, autoWager int64) *Gambler {
	return &Gambler{
		Name:      name,
		AutoWager: autoWager,
	}
}

// Finished reports whether the gambler is done playing: they cashed out
// (auto-wager zeroed) or the bankroll is gone.
func (g *Gambler) Finished(bankroll int64) bool {
	return g.AutoWager == 0 || bankroll == 0
}

// Dealer is the house side of the table
type Dealer struct {
	Name string
}

// NewDealer creates a dealer with a default house name
func NewDealer() *Dealer {
	return &Dealer{Name: "Dealer"}
}
