package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"unicode/utf8"

	"github.com/gliderlabs/ssh"

	"autotile-studio/internal/editor"
	"autotile-studio/internal/render"
	"autotile-studio/internal/workspace"
)

// SSHServer serves one editor session per SSH connection.
type SSHServer struct {
	ws      *workspace.Workspace
	addr    string
	hostKey string

	mu     sync.Mutex
	server *ssh.Server
}

// NewSSHServer creates a new SSH server bound to the given address.
func NewSSHServer(addr, hostKey string, ws *workspace.Workspace) *SSHServer {
	return &SSHServer{
		ws:      ws,
		addr:    addr,
		hostKey: hostKey,
	}
}

// Start begins listening for SSH connections. It blocks until the server
// stops and returns ssh.ErrServerClosed after Shutdown.
func (s *SSHServer) Start() error {
	server := &ssh.Server{
		Addr:    s.addr,
		Handler: s.handleSession,
	}
	if err := server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}

	s.mu.Lock()
	s.server = server
	s.mu.Unlock()

	log.Printf("SSH server listening on %s", s.addr)
	return server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for open sessions to end
// or ctx to expire.
func (s *SSHServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	username := sess.User()
	if username == "" {
		username = "anonymous"
	}

	sessionID, frames := s.ws.AddSession(username)
	log.Printf("Editor connected: %s (%s)", username, sessionID)
	defer func() {
		s.ws.RemoveSession(sessionID)
		log.Printf("Editor disconnected: %s (%s)", username, sessionID)
	}()

	termW, termH := ptyReq.Window.Width, ptyReq.Window.Height
	var termMu sync.Mutex

	engine := render.NewEngine(termW, termH)

	io.WriteString(sess, render.EnableAltScreen())
	io.WriteString(sess, render.HideCursor())
	io.WriteString(sess, render.ClearScreen())
	defer func() {
		io.WriteString(sess, render.ShowCursor())
		io.WriteString(sess, render.DisableAltScreen())
	}()

	inputCh := s.ws.InputChan()
	quitCh := make(chan struct{})

	go func() {
		defer close(quitCh)
		buf := make([]byte, 64)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				return
			}
			for _, action := range parseInput(buf[:n]) {
				if action == editor.ActionQuit {
					return
				}
				select {
				case inputCh <- editor.InputEvent{SessionID: sessionID, Action: action}:
				default:
				}
			}
		}
	}()

	go func() {
		for win := range winCh {
			termMu.Lock()
			termW, termH = win.Width, win.Height
			termMu.Unlock()
		}
	}()

	for {
		select {
		case <-quitCh:
			return
		case <-sess.Context().Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}

			termMu.Lock()
			w, h := termW, termH
			termMu.Unlock()

			output := engine.Draw(render.Compose(frame, w, h))
			if len(output) > 0 {
				io.WriteString(sess, output)
			}
		}
	}
}

// parseInput converts raw terminal bytes into editor actions.
// Arrow keys arrive as ESC [ A..D; everything else goes through the
// shared key map.
func parseInput(data []byte) []editor.Action {
	var actions []editor.Action
	i := 0
	for i < len(data) {
		if i+2 < len(data) && data[i] == 0x1b && data[i+1] == '[' {
			switch data[i+2] {
			case 'A':
				actions = append(actions, editor.ActionUp)
			case 'B':
				actions = append(actions, editor.ActionDown)
			case 'C':
				actions = append(actions, editor.ActionRight)
			case 'D':
				actions = append(actions, editor.ActionLeft)
			}
			i += 3
			continue
		}

		r, size := utf8.DecodeRune(data[i:])
		if a, ok := editor.KeyAction(r); ok {
			actions = append(actions, a)
		}
		i += size
	}
	return actions
}
