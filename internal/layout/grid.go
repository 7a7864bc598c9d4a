// Package layout keeps the grid positions of a dashboard's widgets and
// persists changes after a quiet period.
package layout

import (
	"github.com/GregMSThompson/dashboard-builder/internal/dto"
	"github.com/GregMSThompson/dashboard-builder/internal/models"
)

const (
	Columns   = 12
	RowHeight = 60
)

// Item is one widget's cell on the grid, keyed by component id.
type Item struct {
	I      string `json:"i"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	W      int    `json:"w"`
	H      int    `json:"h"`
	MinW   int    `json:"minW"`
	MinH   int    `json:"minH"`
	MaxW   int    `json:"maxW,omitempty"`
	MaxH   int    `json:"maxH,omitempty"`
	Static bool   `json:"static,omitempty"`
}

func FromComponent(c models.Component) Item {
	p := c.Position
	return Item{
		I: c.ComponentID,
		X: p.X, Y: p.Y, W: p.W, H: p.H,
		MinW: p.MinW, MinH: p.MinH, MaxW: p.MaxW, MaxH: p.MaxH,
		Static: p.Static,
	}
}

func FromComponents(cs []models.Component) []Item {
	items := make([]Item, len(cs))
	for i, c := range cs {
		items[i] = FromComponent(c)
	}
	return items
}

func (it Item) Position() models.Position {
	return models.Position{
		X: it.X, Y: it.Y, W: it.W, H: it.H,
		MinW: it.MinW, MinH: it.MinH, MaxW: it.MaxW, MaxH: it.MaxH,
		Static: it.Static,
	}
}

func (it Item) wire() dto.LayoutItem {
	return dto.LayoutItem(it)
}

// Normalize clamps an item onto the grid: size within its min/max bounds and
// the column count, x and y non-negative, and x+w within the columns. Overlap
// with other items is left alone.
func Normalize(it Item) Item {
	it.MinW = min(max(it.MinW, 1), Columns)
	it.MinH = max(it.MinH, 1)

	if it.MaxW > 0 && it.W > it.MaxW {
		it.W = it.MaxW
	}
	if it.MaxH > 0 && it.H > it.MaxH {
		it.H = it.MaxH
	}
	it.W = min(max(it.W, it.MinW), Columns)
	it.H = max(it.H, it.MinH)

	it.X = max(it.X, 0)
	if it.X+it.W > Columns {
		it.X = Columns - it.W
	}
	it.Y = max(it.Y, 0)
	return it
}

// Valid reports whether an item already satisfies the grid invariants.
func Valid(it Item) bool {
	return it.X >= 0 && it.Y >= 0 &&
		it.W >= it.MinW && it.H >= it.MinH &&
		it.X+it.W <= Columns
}
