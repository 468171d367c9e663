package core

// Scoring holds the points awarded per move kind.
type Scoring struct {
	ToFoundation        int // waste or tableau card placed on a foundation
	WasteToTableau      int
	FoundationToTableau int // usually negative
	Uncover             int // bonus when a move turns a face-down card up
}

// DefaultScoring returns the standard Windows-style scoring table.
func DefaultScoring() Scoring {
	return Scoring{
		ToFoundation:        10,
		WasteToTableau:      5,
		FoundationToTableau: -15,
		Uncover:             5,
	}
}
