package game

// BoardSize is the side length of a standard board.
const BoardSize = 15

// DefaultPassThreshold is the bag size below which passing is offered.
const DefaultPassThreshold = 10

// Bonus tags a premium square. Values match the authority's wire tags.
type Bonus string

const (
	BonusNone    Bonus = ""
	DoubleLetter Bonus = "2L"
	TripleLetter Bonus = "3L"
	DoubleWord   Bonus = "2P"
	TripleWord   Bonus = "3P"
)

// Orientation is the direction a word is laid out from the selected cell.
type Orientation string

const (
	Horizontal Orientation = "H"
	Vertical   Orientation = "V"
)

// Toggle returns the other orientation.
func (o Orientation) Toggle() Orientation {
	if o == Vertical {
		return Horizontal
	}
	return Vertical
}

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Cell is one board square. Letter is empty when no tile is placed; it may hold
// a digraph token such as "CH" or "LL".
type Cell struct {
	Letter string
	Bonus  Bonus
}

// Snapshot is one read of the authoritative game state. A snapshot is never
// mutated after construction.
type Snapshot struct {
	Board         [][]Cell
	Rack          []string
	UserScore     int
	OpponentScore int
	BagRemaining  int
}

// Rows returns the number of board rows.
func (s *Snapshot) Rows() int {
	if s == nil {
		return 0
	}
	return len(s.Board)
}

// Cols returns the number of board columns.
func (s *Snapshot) Cols() int {
	if s == nil || len(s.Board) == 0 {
		return 0
	}
	return len(s.Board[0])
}

// Selection is the board coordinate and orientation for the next placement.
type Selection struct {
	Row         int
	Col         int
	Orientation Orientation
}

// CenterSelection returns the default selection for a size×size board.
func CenterSelection(size int) Selection {
	return Selection{Row: size / 2, Col: size / 2, Orientation: Horizontal}
}

// LowStock reports whether fewer than threshold tiles remain in the bag. A
// threshold of zero or less means DefaultPassThreshold.
func (s *Snapshot) LowStock(threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultPassThreshold
	}
	return s != nil && s.BagRemaining < threshold
}
