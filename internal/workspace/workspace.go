// Package workspace runs the loop that owns a shared rule table and every
// editor session working on it.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"autotile-studio/internal/autotile"
	"autotile-studio/internal/editor"
	"autotile-studio/internal/sheet"
	"autotile-studio/internal/store"
	"autotile-studio/internal/tilemap"
)

const (
	DefaultTickRate = 20 // ticks per second
	InputChanSize   = 256
)

// FrameChan is the per-session channel that receives rendered snapshots.
type FrameChan chan editor.Frame

// Params configures a Workspace.
type Params struct {
	Shared    *autotile.Shared
	Store     store.Store // nil disables saving
	TilesetID string

	MapWidth, MapHeight int
	Fill                func(g *tilemap.Grid) // initial and refill contents of each session's map
	Sheet               *sheet.Sheet

	TickInterval time.Duration
	Logger       *slog.Logger
}

type session struct {
	name   string
	editor *editor.Editor
	frames FrameChan
}

// Workspace processes every session's input on one goroutine, so edits to
// the shared rule table are applied one at a time.
type Workspace struct {
	params    Params
	inputCh   chan editor.InputEvent
	tickCount uint64
	logger    *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*session
	seq      int

	stopCh   chan struct{}
	stopOnce sync.Once
}

func New(p Params) *Workspace {
	if p.TickInterval <= 0 {
		p.TickInterval = time.Second / DefaultTickRate
	}
	if p.Fill == nil {
		p.Fill = tilemap.Clear
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Workspace{
		params:   p,
		inputCh:  make(chan editor.InputEvent, InputChanSize),
		logger:   logger,
		sessions: make(map[string]*session),
		stopCh:   make(chan struct{}),
	}
}

// InputChan returns the shared input channel for sessions to send events.
func (ws *Workspace) InputChan() chan<- editor.InputEvent {
	return ws.inputCh
}

// Save writes the shared rule table to the configured store.
func (ws *Workspace) Save() error {
	if ws.params.Store == nil {
		return errors.New("no storage configured")
	}
	var err error
	ws.params.Shared.View(func(cfg *autotile.SpriteConfig) {
		err = ws.params.Store.Save(ws.params.TilesetID, cfg)
	})
	return err
}

// AddSession registers a new editor session and returns its id and the
// channel its frames arrive on. A name already in use gets a suffix.
func (ws *Workspace) AddSession(name string) (string, FrameChan) {
	grid := tilemap.New(ws.params.MapWidth, ws.params.MapHeight)
	ws.params.Fill(grid)

	opts := []editor.Option{
		editor.WithRefill(ws.params.Fill),
		editor.WithSheet(ws.params.Sheet),
		editor.WithLogger(ws.logger.With("session", name)),
	}
	if ws.params.Store != nil {
		opts = append(opts, editor.WithSave(func(cfg *autotile.SpriteConfig) error {
			return ws.params.Store.Save(ws.params.TilesetID, cfg)
		}))
	}
	ed := editor.New(ws.params.Shared, grid, opts...)

	ws.mu.Lock()
	defer ws.mu.Unlock()

	id := name
	if _, taken := ws.sessions[id]; taken {
		ws.seq++
		id = fmt.Sprintf("%s_%d", name, ws.seq)
	}
	ch := make(FrameChan, 2)
	ws.sessions[id] = &session{name: name, editor: ed, frames: ch}
	ws.logger.Info("session added", "id", id)
	return id, ch
}

// RemoveSession unregisters a session and closes its frame channel.
func (ws *Workspace) RemoveSession(id string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.removeLocked(id)
}

func (ws *Workspace) removeLocked(id string) {
	s, ok := ws.sessions[id]
	if !ok {
		return
	}
	close(s.frames)
	delete(ws.sessions, id)
	ws.logger.Info("session removed", "id", id)
}

// Sessions returns the number of connected sessions.
func (ws *Workspace) Sessions() int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return len(ws.sessions)
}

// Run ticks until ctx is done or Stop is called.
func (ws *Workspace) Run(ctx context.Context) error {
	ticker := time.NewTicker(ws.params.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ws.stopCh:
			return nil
		case <-ticker.C:
			ws.Step()
		}
	}
}

// Stop shuts down the loop. It is safe to call more than once.
func (ws *Workspace) Stop() {
	ws.stopOnce.Do(func() { close(ws.stopCh) })
}

// Tick returns the number of completed steps.
func (ws *Workspace) Tick() uint64 {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.tickCount
}

// Step runs one tick: drain pending input, resolve every session's map
// and broadcast a frame to each.
func (ws *Workspace) Step() {
	for {
		select {
		case ev := <-ws.inputCh:
			ws.processInput(ev)
			continue
		default:
		}
		break
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.tickCount++

	for _, s := range ws.sessions {
		s.editor.Sync()
		frame := s.editor.Frame()

		// Non-blocking send; a slow client drops frames.
		select {
		case s.frames <- frame:
		default:
		}
	}
}

func (ws *Workspace) processInput(ev editor.InputEvent) {
	ws.mu.RLock()
	s, ok := ws.sessions[ev.SessionID]
	ws.mu.RUnlock()
	if !ok {
		return
	}

	err := s.editor.Handle(ev.Action)
	switch {
	case errors.Is(err, editor.ErrQuit):
		ws.RemoveSession(ev.SessionID)
	case err != nil:
		ws.logger.Debug("action rejected", "session", ev.SessionID, "action", ev.Action, "err", err)
	}
}
