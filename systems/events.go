package systems

// Events counts the vesicle events of one or more steps.
type Events struct {
	Absorptions         int `csv:"absorptions" json:"absorptions"`
	Rejections          int `csv:"rejections" json:"rejections"`
	CompetitionWins     int `csv:"competition_wins" json:"competition_wins"`
	MonomersTransferred int `csv:"monomers_transferred" json:"monomers_transferred"`
	Divisions           int `csv:"divisions" json:"divisions"`
	ChildrenCreated     int `csv:"children_created" json:"children_created"`
	StarvedDivisions    int `csv:"starved_divisions" json:"starved_divisions"`
}

// Add accumulates o into e.
func (e *Events) Add(o Events) {
	e.Absorptions += o.Absorptions
	e.Rejections += o.Rejections
	e.CompetitionWins += o.CompetitionWins
	e.MonomersTransferred += o.MonomersTransferred
	e.Divisions += o.Divisions
	e.ChildrenCreated += o.ChildrenCreated
	e.StarvedDivisions += o.StarvedDivisions
}

// Reset zeroes all counters.
func (e *Events) Reset() {
	*e = Events{}
}
