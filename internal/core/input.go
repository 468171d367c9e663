package core

// Action is a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone         Action = iota
	ActionLeft                // h, Left - previous pile
	ActionRight               // l, Right - next pile
	ActionUp                  // k, Up - deeper into a column, or to the top row
	ActionDown                // j, Down - towards the column top, or to the tableau
	ActionSelect              // Space, Enter - pick up or drop cards
	ActionTap                 // t, a - send the card under the cursor to its best pile
	ActionDraw                // d - draw from the stock
	ActionUndo                // u, Backspace - undo the last move
	ActionAutoComplete        // f - finish a sortable game
	ActionRestart             // r - replay the same deal
	ActionNewGame             // n - deal a new game
	ActionPause               // p - pause or resume
	ActionBack                // Esc - drop held cards, or leave the game
	ActionQuit                // q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionSelect:
		return "Select"
	case ActionTap:
		return "Tap"
	case ActionDraw:
		return "Draw"
	case ActionUndo:
		return "Undo"
	case ActionAutoComplete:
		return "AutoComplete"
	case ActionRestart:
		return "Restart"
	case ActionNewGame:
		return "NewGame"
	case ActionPause:
		return "Pause"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Point is a screen cell position.
type Point struct {
	X, Y int
}

// InputFrame collects the input gathered between two game steps.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
	// Clicks holds mouse presses in arrival order.
	Clicks []Point
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Click records a mouse press at (x, y).
func (f *InputFrame) Click(x, y int) {
	f.Clicks = append(f.Clicks, Point{X: x, Y: y})
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Empty reports whether the frame carries no input.
func (f InputFrame) Empty() bool {
	for _, on := range f.Actions {
		if on {
			return false
		}
	}
	return len(f.Clicks) == 0
}

// Clear resets all input for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Clicks = f.Clicks[:0]
}
