// Command tileedit edits a tileset's rules in the local terminal.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"

	"autotile-studio/internal/config"
	"autotile-studio/internal/editor"
	"autotile-studio/internal/render"
	"autotile-studio/internal/sound"
	"autotile-studio/internal/workspace"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config")
	id := flag.String("id", "", "tileset id (overrides config)")
	sheetPath := flag.String("sheet", "", "sprite sheet PNG (overrides config)")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Config error: %v", err)
		}
	}
	if *id != "" {
		cfg.Tileset.ID = *id
	}
	if *sheetPath != "" {
		cfg.Tileset.Sheet = *sheetPath
	}

	// The screen owns the terminal, so workspace logs are dropped.
	ws, st, err := workspace.FromConfig(cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		log.Fatalf("Workspace error: %v", err)
	}
	defer st.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to initialize screen: %v", err)
	}

	player := sound.NewPlayer()
	if !*mute {
		// Audio is optional; editing works without a device.
		_ = player.Init()
	}

	ctx, cancel := context.WithCancel(context.Background())
	go ws.Run(ctx)

	sessionID, frames := ws.AddSession("local")
	run(screen, ws, sessionID, frames, player)

	cancel()
	player.Close()
	screen.Fini()

	if err := ws.Save(); err != nil {
		log.Printf("Save on exit failed: %v", err)
	}
}

func run(screen tcell.Screen, ws *workspace.Workspace, sessionID string, frames workspace.FrameChan, player *sound.Player) {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	inputCh := ws.InputChan()
	var last editor.Frame
	haveLast := false

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				action, ok := keyAction(ev)
				if !ok {
					continue
				}
				if action == editor.ActionQuit {
					ws.RemoveSession(sessionID)
					return
				}
				inputCh <- editor.InputEvent{SessionID: sessionID, Action: action}
			case *tcell.EventResize:
				screen.Sync()
			}

		case frame, ok := <-frames:
			if !ok {
				return
			}
			if haveLast {
				feedback(player, last, frame)
			}
			last, haveLast = frame, true

			w, h := screen.Size()
			draw(screen, render.Compose(frame, w, h))
		}
	}
}

func keyAction(ev *tcell.EventKey) (editor.Action, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return editor.ActionUp, true
	case tcell.KeyDown:
		return editor.ActionDown, true
	case tcell.KeyLeft:
		return editor.ActionLeft, true
	case tcell.KeyRight:
		return editor.ActionRight, true
	case tcell.KeyTab:
		return editor.ActionNextPane, true
	case tcell.KeyEnter:
		return editor.ActionToggle, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return editor.ActionQuit, true
	case tcell.KeyRune:
		return editor.KeyAction(ev.Rune())
	}
	return editor.ActionNone, false
}

func feedback(p *sound.Player, prev, cur editor.Frame) {
	switch {
	case strings.HasPrefix(cur.Status, "saved") && cur.Status != prev.Status:
		p.Saved()
	case cur.Unmatched > prev.Unmatched:
		p.Unmatched()
	case cur.Rules != prev.Rules || cur.Coverage != prev.Coverage:
		p.Edit()
	}
}

func color(c render.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func draw(screen tcell.Screen, c *render.Canvas) {
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			cell := c.At(x, y)
			ch := cell.Ch
			if ch == 0 {
				ch = ' '
			}
			style := tcell.StyleDefault.Foreground(color(cell.Fg)).Background(color(cell.Bg)).Bold(cell.Bold)
			screen.SetContent(x, y, ch, nil, style)
		}
	}
	screen.Show()
}
