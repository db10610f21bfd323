package ui

import (
	"fmt"
	"reflect"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/keynav/internal/backend"
	"github.com/atomicstack/keynav/internal/theme"
	"github.com/atomicstack/keynav/internal/ui/command"
)

var styles = theme.Default()

// chromeRows are the terminal rows reserved below the virtual screen.
const chromeRows = 2

type msgHandler func(tea.Msg) tea.Cmd

// dispatchedMsg reports the outcome of one key routed through the engine.
type dispatchedMsg struct {
	key    string
	result backend.Result
}

// Model implements the Bubble Tea model for the preview backend.
type Model struct {
	surface     *Surface
	dispatcher  *backend.Dispatcher
	bus         *command.Bus
	keys        keyMap
	help        help.Model
	alpha       float64
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	seq         int
	lastKey     string
	lastResult  backend.Result

	handlers map[reflect.Type]msgHandler
}

// NewModel wires a surface and dispatcher into a program model. Positive
// width or height pin the virtual screen size.
func NewModel(surface *Surface, dispatcher *backend.Dispatcher, alpha float64, width, height int) *Model {
	m := &Model{
		surface:    surface,
		dispatcher: dispatcher,
		bus:        command.New(),
		keys:       newKeyMap(dispatcher.Keymap()),
		help:       help.New(),
		alpha:      alpha,
	}
	if width > 0 {
		m.width = width
		m.fixedWidth = true
	}
	if height > 0 {
		m.height = height + chromeRows
		m.fixedHeight = true
	}
	if m.fixedWidth || m.fixedHeight {
		m.resizeSurface()
	}
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

// Close stops the command worker after queued keys finish.
func (m *Model) Close() {
	m.bus.Close()
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(dispatchedMsg{}):     m.handleDispatchedMsg,
		reflect.TypeOf(surfaceChangedMsg{}): m.handleSurfaceChangedMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg := msg.(tea.KeyMsg)
	if keyMsg.String() == "?" && !m.dispatcher.State().Active() {
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}
	ev, ok := translateKey(keyMsg)
	if !ok {
		return nil
	}
	m.seq++
	d := m.dispatcher
	return m.bus.Execute(command.Request{
		ID:    fmt.Sprintf("key-%d", m.seq),
		Label: ev.Name,
		Run: func() tea.Msg {
			res := d.Handle(ev)
			// terminals report presses only
			if !res.Quit {
				up := ev
				up.Pressed = false
				d.Handle(up)
			}
			return dispatchedMsg{key: ev.Name, result: res}
		},
	})
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size := msg.(tea.WindowSizeMsg)
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	m.help.Width = m.width
	m.resizeSurface()
	return nil
}

func (m *Model) handleDispatchedMsg(msg tea.Msg) tea.Cmd {
	done := msg.(dispatchedMsg)
	m.lastKey = done.key
	m.lastResult = done.result
	if done.result.Quit {
		return tea.Quit
	}
	return nil
}

func (m *Model) handleSurfaceChangedMsg(tea.Msg) tea.Cmd {
	return nil
}

func (m *Model) resizeSurface() {
	rows := m.height - chromeRows
	if rows < 0 {
		rows = 0
	}
	m.surface.Resize(m.width, rows)
}
