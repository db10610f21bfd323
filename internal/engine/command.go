package engine

import (
	"fmt"
	"strings"
)

// Command is a non-selection action available while navigating.
type Command int

const (
	CommandConfirm Command = iota + 1
	CommandAltConfirm
	CommandUndo
	CommandDoubleConfirm
	CommandMiddleConfirm
	CommandClickStay
	CommandCancel
)

var commandNames = map[Command]string{
	CommandConfirm:       "confirm",
	CommandAltConfirm:    "alt_confirm",
	CommandUndo:          "undo",
	CommandDoubleConfirm: "double_confirm",
	CommandMiddleConfirm: "middle_confirm",
	CommandClickStay:     "click_stay",
	CommandCancel:        "cancel",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// Commands lists every command in declaration order.
func Commands() []Command {
	return []Command{
		CommandConfirm,
		CommandAltConfirm,
		CommandUndo,
		CommandDoubleConfirm,
		CommandMiddleConfirm,
		CommandClickStay,
		CommandCancel,
	}
}

// ParseCommand resolves a command by the name String returns.
func ParseCommand(name string) (Command, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range commandNames {
		if n == name {
			return c, true
		}
	}
	return 0, false
}

// ClickAction describes the synthetic click a command produces.
type ClickAction struct {
	Button     Button
	Count      int
	Deactivate bool
}

// Click reports the click a command performs, if any.
func (c Command) Click() (ClickAction, bool) {
	switch c {
	case CommandConfirm:
		return ClickAction{Button: ButtonLeft, Count: 1, Deactivate: true}, true
	case CommandAltConfirm:
		return ClickAction{Button: ButtonRight, Count: 1, Deactivate: true}, true
	case CommandDoubleConfirm:
		return ClickAction{Button: ButtonLeft, Count: 2, Deactivate: true}, true
	case CommandMiddleConfirm:
		return ClickAction{Button: ButtonMiddle, Count: 1, Deactivate: true}, true
	case CommandClickStay:
		return ClickAction{Button: ButtonLeft, Count: 1}, true
	}
	return ClickAction{}, false
}
