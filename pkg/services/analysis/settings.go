package analysis

// Settings contains the thresholds used to classify a chart
type Settings struct {
	// ExcessThreshold is the count at which an element is over-represented (default: 3)
	ExcessThreshold int
	// MissingThreshold is the count at or below which an element is under-represented (default: 0)
	MissingThreshold int
	// StrongThreshold is the number of supporting characters, out of the seven
	// besides the day master, that makes the day master strong (default: 4)
	StrongThreshold int
}

// DefaultSettings returns the default classification thresholds
func DefaultSettings() Settings {
	return Settings{
		ExcessThreshold:  3,
		MissingThreshold: 0,
		StrongThreshold:  4,
	}
}
