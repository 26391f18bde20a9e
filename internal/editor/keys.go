package editor

import "unicode"

// runeActions is the keyboard layout shared by every front end.
var runeActions = map[rune]Action{
	'k':  ActionUp,
	'j':  ActionDown,
	'h':  ActionLeft,
	'l':  ActionRight,
	' ':  ActionToggle,
	'\r': ActionToggle,
	'\t': ActionNextPane,
	'a':  ActionAddRule,
	'x':  ActionDeleteRule,
	'e':  ActionCycle,
	'c':  ActionCapture,
	'b':  ActionStamp,
	'r':  ActionRefill,
	's':  ActionSave,
	'q':  ActionQuit,
	0x03: ActionQuit, // Ctrl-C
}

// KeyAction maps a typed rune to its action. Movement and quit keys
// ignore case.
func KeyAction(r rune) (Action, bool) {
	if a, ok := runeActions[r]; ok {
		return a, true
	}
	a, ok := runeActions[unicode.ToLower(r)]
	if !ok {
		return ActionNone, false
	}
	switch a {
	case ActionUp, ActionDown, ActionLeft, ActionRight, ActionQuit:
		return a, true
	}
	return ActionNone, false
}
