// Package tui is the terminal front end. The bubbletea loop is the only
// goroutine that touches chat state; provider notifications reach it as
// messages.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"go-groupchat/internal/chat"
	"go-groupchat/internal/collab"
	"go-groupchat/internal/render"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Opener connects to a collaboration provider.
type Opener func(ctx context.Context, opts collab.Options) (collab.Provider, error)

type (
	syncMsg      struct{}
	connectedMsg struct{ room *chat.Room }
	connectErr   struct{ err error }
)

const (
	headerHeight = 2
	footerHeight = 3
)

// Model is the bubbletea model for the whole client.
type Model struct {
	ctx   context.Context
	opts  collab.Options
	open  Opener
	scope *scope
	waker *waker

	identity chat.Identity
	session  *chat.Session
	room     *chat.Room

	input      textinput.Model
	viewport   viewport.Model
	notice     string
	showRoster bool
	connecting bool
	width      int
}

func New(ctx context.Context, opts collab.Options, open Opener) Model {
	input := textinput.New()
	input.Placeholder = "Your name"
	input.CharLimit = 512
	input.Focus()

	return Model{
		ctx:      ctx,
		opts:     opts,
		open:     open,
		scope:    &scope{},
		waker:    &waker{},
		session:  chat.NewSession(),
		input:    input,
		viewport: viewport.New(80, 20),
		width:    80,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 3)
		m.input.Width = max(msg.Width-4, 10)
		m.refreshList()
		return m, nil

	case syncMsg:
		if m.room != nil && m.room.Sync() {
			m.refreshList()
		}
		return m, nil

	case connectedMsg:
		m.connecting = false
		m.room = msg.room
		m.notice = ""
		m.room.Sync()
		m.refreshList()
		return m, nil

	case connectErr:
		m.connecting = false
		m.notice = fmt.Sprintf("could not join %s: %v", m.opts.Room, msg.err)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelIdentity()
			return m, tea.Quit
		}
		switch m.identity.Stage() {
		case chat.NotReady:
			return m.updateStart(msg)
		case chat.Validating:
			return m.updatePrompt(msg)
		case chat.Ready:
			return m.updateChat(msg)
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) cancelIdentity() {
	if m.identity.Stage() == chat.NotReady || m.identity.Stage() == chat.Validating {
		m.identity.Cancel()
	}
}

func (m Model) updateStart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.identity.Begin()
	case tea.KeyEsc:
		m.identity.Cancel()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.identity.Cancel()
		return m, tea.Quit

	case tea.KeyEnter:
		name, err := m.identity.Submit(m.input.Value())
		if err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.session.DisplayName = name
		m.notice = ""
		m.input.Reset()
		m.input.Placeholder = "Type a message..."
		m.connecting = true
		return m, m.connect()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// connect opens the provider and mounts the room off the UI loop. Mount only
// touches the new room, which the loop cannot see until connectedMsg.
func (m Model) connect() tea.Cmd {
	ctx, opts, open, scope, session, wake := m.ctx, m.opts, m.open, m.scope, m.session, m.waker.wake
	return func() tea.Msg {
		provider, err := open(ctx, opts)
		if err != nil {
			slog.Error("[TUI] Failed to open provider", "url", opts.URL, "room", opts.Room, "error", err)
			return connectErr{err: err}
		}
		room, err := chat.Mount(provider, session, wake)
		if err != nil {
			return connectErr{err: err}
		}
		if !scope.adopt(room) {
			return nil
		}
		return connectedMsg{room: room}
	}
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyEnter:
		if m.room == nil {
			return m, nil
		}
		m.submit(strings.TrimRight(m.input.Value(), " "))
		return m, nil

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before && m.room != nil {
		m.publishDraft(after)
	}
	return m, cmd
}

func (m *Model) submit(value string) {
	m.notice = ""
	switch {
	case value == "/who":
		m.showRoster = !m.showRoster
		m.input.Reset()
		m.publishDraft("")
		m.refreshList()

	case value == "/name" || strings.HasPrefix(value, "/name "):
		name, err := m.identity.Rename(strings.TrimPrefix(value, "/name"))
		if err != nil {
			m.notice = err.Error()
			return
		}
		m.input.Reset()
		m.room.Session().Draft = ""
		if err := m.room.Rename(name); err != nil {
			m.notice = err.Error()
		}

	default:
		// Slash text that is not a command was kept out of the shared draft.
		m.room.Session().Draft = m.input.Value()
		sent, err := m.room.Send(m.ctx)
		if sent {
			m.input.Reset()
		}
		if err != nil {
			m.notice = err.Error()
		}
	}
}

// publishDraft keeps commands out of the shared draft.
func (m *Model) publishDraft(value string) {
	if strings.HasPrefix(value, "/") {
		value = ""
	}
	if value == m.room.Session().Draft {
		return
	}
	if err := m.room.SetDraft(value); err != nil {
		m.notice = err.Error()
	}
}

func (m *Model) refreshList() {
	if m.room == nil {
		return
	}
	if m.showRoster {
		m.viewport.SetContent(render.Roster(m.session.ClientID, m.room.Participants()))
		return
	}
	m.viewport.SetContent(render.MessageList(m.session.ClientID, m.room.Messages(), m.width))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	switch m.identity.Stage() {
	case chat.NotReady:
		return render.Start()
	case chat.Validating:
		return render.NamePrompt(m.input.View(), m.notice)
	case chat.Cancelled:
		return ""
	}

	if m.room == nil {
		if m.connecting {
			return fmt.Sprintf("Connecting to %s (%s)…", m.opts.URL, m.opts.Room)
		}
		return render.NamePrompt("", m.notice)
	}
	return render.Chat(render.Frame{
		Self:         m.session,
		Participants: len(m.room.Participants()),
		List:         m.viewport.View(),
		Typing:       m.room.Typing(),
		Input:        m.input.View(),
		Notice:       m.notice,
	})
}

// scope owns the mounted room across the program's lifetime, including a room
// whose connection finishes after the user quit.
type scope struct {
	mu     sync.Mutex
	closed bool
	room   *chat.Room
}

func (s *scope) adopt(room *chat.Room) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		room.Unmount()
		return false
	}
	s.room = room
	s.mu.Unlock()
	return true
}

func (s *scope) Close() error {
	s.mu.Lock()
	s.closed = true
	room := s.room
	s.mu.Unlock()

	if room == nil {
		return nil
	}
	return room.Unmount()
}

// waker forwards provider notifications into the program without blocking
// the notifying goroutine.
type waker struct {
	prog *tea.Program
}

func (w *waker) wake() {
	if w.prog != nil {
		go w.prog.Send(syncMsg{})
	}
}

// Run drives the client until the user quits or ctx ends. The room, if any,
// is unmounted on every exit path.
func Run(parent context.Context, opts collab.Options, open Opener, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	m := New(ctx, opts, open)
	prog := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	m.waker.prog = prog

	_, err := prog.Run()
	cancel()
	closeErr := m.scope.Close()

	if errors.Is(err, tea.ErrProgramKilled) && parent.Err() != nil {
		err = nil
	}
	return errors.Join(err, closeErr)
}
