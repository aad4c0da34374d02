package model

// ClientPlayer is a seat as clients see it.
type ClientPlayer struct {
	ID       string      `json:"name"`
	Color    PlayerColor `json:"color"`
	Computer bool        `json:"computer"`
	TimeUsed int         `json:"timeUsed"`
}

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

func (c PlayerColor) Valid() bool {
	return c == PlayerColorWhite || c == PlayerColorBlack
}

func (c PlayerColor) Opponent() PlayerColor {
	if c == PlayerColorBlack {
		return PlayerColorWhite
	}
	return PlayerColorBlack
}

// Forward is the y direction a non-promoted piece of this color advances in.
// Black starts on rows 0-2 and advances down the board, white the other way.
func (c PlayerColor) Forward() int {
	if c == PlayerColorBlack {
		return 1
	}
	return -1
}

// PromotionRow is the far rank for the color.
func (c PlayerColor) PromotionRow() int {
	if c == PlayerColorBlack {
		return Size - 1
	}
	return 0
}
