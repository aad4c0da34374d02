package model

type WSMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

type SimpleMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// Step is one executed hop inside a ply.
type Step struct {
	From       Square  `json:"from"`
	To         Square  `json:"to"`
	CapturedAt *Square `json:"capturedAt"`
	Promoted   bool    `json:"promoted"`
}

// Ply is a full turn for one color: a single move, or a chain of captures
// made by one piece.
type Ply struct {
	Color PlayerColor `json:"color"`
	Steps []Step      `json:"steps"`
}

func (p Ply) Captures() int {
	n := 0
	for _, s := range p.Steps {
		if s.CapturedAt != nil {
			n++
		}
	}
	return n
}

type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]Piece, 0),
		Black: make([]Piece, 0),
	}
}

// add records a piece lost by its owner.
func (c *CapturedPieces) add(p Piece) {
	switch p.Color {
	case PlayerColorWhite:
		c.White = append(c.White, p)
	case PlayerColorBlack:
		c.Black = append(c.Black, p)
	}
}

func (c CapturedPieces) clone() CapturedPieces {
	return CapturedPieces{
		White: append(make([]Piece, 0, len(c.White)), c.White...),
		Black: append(make([]Piece, 0, len(c.Black)), c.Black...),
	}
}

func (p Ply) clone() Ply {
	c := Ply{Color: p.Color, Steps: make([]Step, len(p.Steps))}
	for i, s := range p.Steps {
		if s.CapturedAt != nil {
			at := *s.CapturedAt
			s.CapturedAt = &at
		}
		c.Steps[i] = s
	}
	return c
}
