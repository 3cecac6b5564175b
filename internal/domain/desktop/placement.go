package desktop

// Viewport is the visible desktop area in pixels
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Placement computes the initial position of the n-th open window
type Placement interface {
	Place(n int, viewport Viewport) Position
}

// Cascade places windows on a diagonal: (Origin + Step*n, Origin + Step*n).
// When a viewport is known the cascade wraps back to Origin before a window
// would keep less than MinVisible pixels on screen. A zero viewport never wraps.
type Cascade struct {
	Origin     int
	Step       int
	MinVisible int
}

// DefaultCascade matches the classic 50px origin, 30px step layout
func DefaultCascade() Cascade {
	return Cascade{Origin: 50, Step: 30, MinVisible: 200}
}

// Place implements Placement
func (c Cascade) Place(n int, viewport Viewport) Position {
	if n < 0 {
		n = 0
	}
	if slots := c.slots(viewport); slots > 0 {
		n %= slots
	}
	offset := c.Origin + c.Step*n
	return Position{X: offset, Y: offset}
}

// slots returns how many cascade steps fit in viewport, or 0 for unbounded
func (c Cascade) slots(viewport Viewport) int {
	if viewport.Width <= 0 || viewport.Height <= 0 || c.Step <= 0 {
		return 0
	}
	span := viewport.Width
	if viewport.Height < span {
		span = viewport.Height
	}
	room := span - c.MinVisible - c.Origin
	if room < 0 {
		return 1
	}
	return room/c.Step + 1
}
