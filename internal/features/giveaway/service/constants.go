package service

const (
	DefaultRerollWinners = 1
	MaxRerollWinners     = 50

	// How many follow-up messages reroll scans for winner mentions.
	RerollScanLimit = 5
)
