// Command treeedit is a terminal editor for tree diagrams.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/treeflow/pkg/config"
	"github.com/ha1tch/treeflow/pkg/diagram"
	"github.com/ha1tch/treeflow/pkg/geom"
	"github.com/ha1tch/treeflow/pkg/host"
	"github.com/ha1tch/treeflow/pkg/render"
	"github.com/ha1tch/treeflow/pkg/snapshot"
	"github.com/ha1tch/treeflow/pkg/store"
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgError
	MsgSuccess
)

// Editor holds the terminal session state.
type Editor struct {
	screen tcell.Screen
	cfg    *config.Config
	log    *slog.Logger

	scene   *render.Scene
	diagram *diagram.Editor
	input   *host.Adapter

	store *store.File
	saver *store.Saver

	modified    bool
	message     string
	messageType MessageType
}

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logOut, closeLog, err := openLog(cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	log := newLogger(cfg.Log.Level, logOut)

	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	st, err := storeFor(cfg, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ed := newEditor(cfg, log, st)
	if err := ed.load(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", st.Path(), err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.Clear()
	ed.screen = screen
	ed.input.Resize(screen.Size())

	ed.run()
	screen.Fini()

	ctx, cancel := context.WithTimeout(context.Background(), store.DefaultSaveTimeout)
	defer cancel()
	if err := ed.saver.Close(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving %s: %v\n", st.Path(), err)
		os.Exit(1)
	}
	if _, failed := ed.saver.Stats(); failed > 0 {
		fmt.Fprintf(os.Stderr, "%d saves failed, see the log\n", failed)
	}
}

// newLogger builds the editor logger. The terminal belongs to the
// screen, so output goes to the configured file.
func newLogger(level string, w io.Writer) *slog.Logger {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// storeFor picks the backing file: the snapshot named on the command
// line, or the configured record in the store directory.
func storeFor(cfg *config.Config, path string) (*store.File, error) {
	if path == "" {
		format, err := snapshot.ParseFormat(cfg.Store.Format)
		if err != nil {
			return nil, err
		}
		return store.NewFile(cfg.StoreDir(), cfg.Store.Key, format), nil
	}
	format, err := snapshot.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	key := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return store.NewFile(filepath.Dir(path), key, format), nil
}

func newEditor(cfg *config.Config, log *slog.Logger, st *store.File) *Editor {
	ed := &Editor{
		cfg:   cfg,
		log:   log,
		scene: render.NewScene(),
		store: st,
		saver: store.NewSaver(st, log),
	}
	opts := cfg.EditorOptions()
	opts.Surface = ed.scene
	opts.Logger = log
	hook := ed.saver.Hook()
	opts.OnChange = func(s snapshot.Snapshot) {
		ed.modified = true
		hook(s)
	}
	ed.diagram = diagram.New(opts)
	ed.input = host.New(ed.diagram, host.DefaultLayout())
	return ed
}

func (ed *Editor) load(ctx context.Context) error {
	snap, err := ed.store.Load(ctx)
	if err != nil {
		return err
	}
	if snap != nil {
		ed.diagram.Restore(*snap)
		ed.log.Info("snapshot loaded", "path", ed.store.Path(), "nodes", ed.diagram.Len())
	}
	return nil
}

func (ed *Editor) run() {
	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			ed.screen.Sync()
			ed.input.Resize(ev.Size())
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.message = ""
			ed.input.Handle(host.FromTcell(ev))
		case *tcell.EventFocus:
			if !ev.Focused {
				ed.input.Blur()
			}
		case nil:
			return
		}
	}
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	d := ed.diagram
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyCtrlA:
		d.SelectAll()
		return false
	case tcell.KeyEscape:
		d.Cancel()
		d.DismissMenus()
		d.ClearSelection()
		return false
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := d.DeleteSelected(); n > 0 {
			ed.showMessage(fmt.Sprintf("Deleted %d nodes", n), MsgSuccess)
		}
		return false
	case tcell.KeyUp:
		ed.scrollBy(0, -1)
		return false
	case tcell.KeyDown:
		ed.scrollBy(0, 1)
		return false
	case tcell.KeyLeft:
		ed.scrollBy(-1, 0)
		return false
	case tcell.KeyRight:
		ed.scrollBy(1, 0)
		return false
	case tcell.KeyRune:
	default:
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case '+', '=':
		d.ScaleUp()
	case '-', '_':
		d.ScaleDown()
	case 'a':
		d.Arrange()
	case 'c':
		ed.copyToClipboard()
	case 'v':
		ed.pasteFromClipboard()
	case 'e':
		ed.export()
	}
	return false
}

// scrollBy pans the viewport by a number of cells.
func (ed *Editor) scrollBy(cols, rows int) {
	cell := ed.input.Layout().CellSize
	step := geom.Point{X: float64(cols) * cell.W * 4, Y: float64(rows) * cell.H * 2}
	before := ed.diagram.Scroll()
	ed.diagram.ScrollTo(before.Add(step))
	if ed.diagram.Scroll() != before {
		// ScrollTo leaves saving to the caller
		ed.saver.Offer(ed.diagram.Serialize())
		ed.modified = true
	}
}

func (ed *Editor) copyToClipboard() {
	data, err := snapshot.MarshalJSON(ed.diagram.Serialize(), true)
	if err != nil {
		ed.showMessage("Clipboard error: "+err.Error(), MsgError)
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		ed.showMessage("Clipboard error: "+err.Error(), MsgError)
		return
	}
	ed.showMessage(fmt.Sprintf("Copied %d nodes to clipboard", ed.diagram.Len()), MsgSuccess)
}

// pasteFromClipboard replaces the diagram with a JSON snapshot from the
// clipboard and saves it.
func (ed *Editor) pasteFromClipboard() {
	text, err := clipboard.ReadAll()
	if err != nil {
		ed.showMessage("Clipboard error: "+err.Error(), MsgError)
		return
	}
	snap, err := snapshot.UnmarshalJSON([]byte(text))
	if err != nil {
		ed.showMessage("Clipboard does not hold a diagram", MsgError)
		return
	}
	ed.diagram.Restore(*snap)
	ed.saver.Offer(ed.diagram.Serialize())
	ed.modified = true
	ed.showMessage(fmt.Sprintf("Pasted %d nodes", ed.diagram.Len()), MsgSuccess)
}

// export renders the diagram next to the store file in the configured
// export format.
func (ed *Editor) export() {
	if ed.diagram.Len() == 0 {
		ed.showMessage("Canvas is empty - nothing to render", MsgError)
		return
	}
	format := ed.cfg.Export.Format
	out := strings.TrimSuffix(ed.store.Path(), filepath.Ext(ed.store.Path())) + "." + format

	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		opts := render.DefaultPNGOptions()
		opts.Width, opts.Height = ed.cfg.Export.Width, ed.cfg.Export.Height
		err = render.PNG(&buf, ed.exportScene(), opts)
	case "dot":
		buf.WriteString(render.DOT(ed.diagram.Serialize(), ed.store.Path()))
	default:
		err = render.SVG(&buf, ed.exportScene(), render.DefaultSVGOptions())
	}
	if err == nil {
		err = os.WriteFile(out, buf.Bytes(), 0o644)
	}
	if err != nil {
		ed.log.Error("export failed", "path", out, "err", err)
		ed.showMessage("Export failed: "+err.Error(), MsgError)
		return
	}
	ed.log.Info("exported", "path", out, "format", format)
	ed.showMessage("Exported "+filepath.Base(out), MsgSuccess)
}

// exportScene draws the persisted state only: no selection, previews or
// zoom.
func (ed *Editor) exportScene() *render.Scene {
	return render.SceneFromSnapshot(ed.diagram.Serialize(), ed.diagram.Options().NodeSize)
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	if ed.screen != nil {
		ed.screen.PostEvent(tcell.NewEventInterrupt(time.Now()))
	}
}
