package editor

// Action is one editor command.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionToggle   // flip the map cell, or cycle the rule direction, under the cursor
	ActionNextPane // map -> sheet -> rule -> map
	ActionAddRule  // full wildcard rule at the sheet cursor
	ActionDeleteRule
	ActionCycle   // cycle the rule direction under the rule cursor
	ActionCapture // exact rule at the sheet cursor from the map cursor cell
	ActionStamp   // blob template at the sheet cursor
	ActionRefill
	ActionSave
	ActionQuit
)

var actionNames = [...]string{
	ActionNone:       "none",
	ActionUp:         "up",
	ActionDown:       "down",
	ActionLeft:       "left",
	ActionRight:      "right",
	ActionToggle:     "toggle",
	ActionNextPane:   "next-pane",
	ActionAddRule:    "add-rule",
	ActionDeleteRule: "delete-rule",
	ActionCycle:      "cycle",
	ActionCapture:    "capture",
	ActionStamp:      "stamp",
	ActionRefill:     "refill",
	ActionSave:       "save",
	ActionQuit:       "quit",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Pane is the part of the editor the cursor keys act on.
type Pane int

const (
	PaneMap Pane = iota
	PaneSheet
	PaneRule
	numPanes
)

func (p Pane) String() string {
	switch p {
	case PaneMap:
		return "map"
	case PaneSheet:
		return "sheet"
	case PaneRule:
		return "rule"
	}
	return "?"
}

// InputEvent carries an action from a session into the workspace loop.
type InputEvent struct {
	SessionID string
	Action    Action
}
