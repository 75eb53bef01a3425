package tui

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/duoslide/duoslide-cli/internal/adapters/driving/tui/keymap"
	"github.com/duoslide/duoslide-cli/internal/adapters/driving/tui/messages"
	"github.com/duoslide/duoslide-cli/internal/adapters/driving/tui/render"
	"github.com/duoslide/duoslide-cli/internal/adapters/driving/tui/styles"
	"github.com/duoslide/duoslide-cli/internal/core/domain"
)

// Chrome rows around the slide panes: header, notes block, status bar.
const (
	headerRows = 1
	notesRows  = 6
	statusRows = 1
)

// App is the presenter cockpit following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
//
// The cockpit shows the live slide pane (mirroring what the audience
// sees), the preview pane with its independent cursor, the speaker
// notes for the live slide, and the timer. All slide navigation is
// submitted to the engine; the cockpit itself never holds slide state
// beyond the last snapshot the engine pushed.
type App struct {
	// ports provides access to the engine via driving ports.
	ports *Ports

	// ctx is the context for engine commands.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keys holds the keybindings.
	keys *keymap.KeyMap

	// state is the last snapshot pushed by the engine.
	state domain.PresentationState

	// liveBitmap and previewBitmap are the last delivered renders for
	// their panes, tagged with the page they show.
	liveBitmap    image.Image
	livePage      int
	previewBitmap image.Image
	previewPage   int

	// now drives the timer readout, updated once per second.
	now time.Time

	// err holds the last command error.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// showHelp toggles the help overlay.
	showHelp bool

	// ready indicates the first WindowSizeMsg has arrived.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the cockpit with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      styles.DefaultStyles(),
		keys:        keymap.DefaultKeyMap(),
		state:       ports.Presenter.State(),
		livePage:    -1,
		previewPage: -1,
		now:         time.Now(),
	}, nil
}

// WithContext sets the context for engine commands.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("duoslide"),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return messages.Tick{Now: t}
	})
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.pushViewSizes()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.StateUpdated:
		a.state = msg.State
		return a, nil

	case messages.SlideReady:
		a.storeBitmap(msg.Page, msg.Bitmap)
		return a, nil

	case messages.PointerUpdated:
		// The audience window consumes pointer positions; the cockpit
		// has nothing to draw for them.
		return a, nil

	case messages.Tick:
		a.now = msg.Now
		return a, tickCmd()

	case messages.CommandFailed:
		a.err = msg.Err
		return a, nil
	}

	return a, nil
}

//nolint:gocyclo // central key dispatch
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch {
	case keymap.Matches(k, a.keys.Quit):
		return a, tea.Batch(a.exec(a.ports.Presenter.Stop), tea.Quit)

	case keymap.Matches(k, a.keys.Help):
		a.showHelp = true
		return a, nil

	case keymap.Matches(k, a.keys.Next):
		return a, a.exec(a.ports.Presenter.Next)

	case keymap.Matches(k, a.keys.Previous):
		return a, a.exec(a.ports.Presenter.Previous)

	case keymap.Matches(k, a.keys.StartBeginning):
		return a, a.exec(a.ports.Presenter.StartFromBeginning)

	case keymap.Matches(k, a.keys.StartCurrent):
		return a, a.exec(a.ports.Presenter.StartFromCurrent)

	case keymap.Matches(k, a.keys.Stop):
		return a, a.exec(a.ports.Presenter.Stop)

	case keymap.Matches(k, a.keys.Blank):
		return a, a.exec(a.ports.Presenter.ToggleBlank)

	case keymap.Matches(k, a.keys.PreviewNext):
		return a, a.exec(a.ports.Presenter.PreviewNext)

	case keymap.Matches(k, a.keys.PreviewPrevious):
		return a, a.exec(a.ports.Presenter.PreviewPrevious)

	case keymap.Matches(k, a.keys.PreviewSetNext):
		return a, a.exec(a.ports.Presenter.PreviewSetNext)

	case keymap.Matches(k, a.keys.PreviewSetPrevious):
		return a, a.exec(a.ports.Presenter.PreviewSetPrevious)

	case keymap.Matches(k, a.keys.Remember):
		return a, a.exec(a.ports.Presenter.PreviewRemember)

	case keymap.Matches(k, a.keys.Recall):
		return a, a.exec(a.ports.Presenter.PreviewRecall)
	}

	return a, nil
}

// exec runs an engine command. A failure comes back as a CommandFailed
// message so the error lands in the status bar through the update loop.
// Commands are synchronous and fast; renders they trigger arrive later
// as SlideReady messages.
func (a *App) exec(cmd func(context.Context) error) tea.Cmd {
	if err := cmd(a.ctx); err != nil {
		return func() tea.Msg { return messages.CommandFailed{Err: err} }
	}
	a.err = nil
	return nil
}

// storeBitmap routes a delivered render to the pane it was sized for.
func (a *App) storeBitmap(page int, bmp image.Image) {
	if bmp == nil {
		return
	}
	liveW, liveH := a.livePaneSize()
	prevW, prevH := a.previewPaneSize()
	b := bmp.Bounds()

	lw, lh := render.CellSize(liveW, liveH)
	if b.Dx() == lw && b.Dy() == lh {
		a.liveBitmap = bmp
		a.livePage = page
		return
	}
	pw, ph := render.CellSize(prevW, prevH)
	if b.Dx() == pw && b.Dy() == ph {
		a.previewBitmap = bmp
		a.previewPage = page
	}
}

// pushViewSizes informs the engine of the current pane render sizes.
// In the cockpit the live pane doubles as the audience render target.
func (a *App) pushViewSizes() {
	liveW, liveH := a.livePaneSize()
	prevW, prevH := a.previewPaneSize()
	if liveW <= 0 || liveH <= 0 {
		return
	}

	aw, ah := render.CellSize(liveW, liveH)
	pw, ph := render.CellSize(prevW, prevH)
	a.ports.Presenter.SetViewSizes(
		domain.Size{Width: aw, Height: ah},
		domain.Size{Width: pw, Height: ph},
	)
}

// paneRows returns the cell height available to the slide panes.
func (a *App) paneRows() int {
	return a.height - headerRows - notesRows - statusRows - 2 // pane borders
}

// livePaneSize returns the live pane's inner size in cells.
func (a *App) livePaneSize() (cols, rows int) {
	return (a.width*2)/3 - 2, a.paneRows()
}

// previewPaneSize returns the preview pane's inner size in cells.
func (a *App) previewPaneSize() (cols, rows int) {
	liveCols, _ := a.livePaneSize()
	return a.width - liveCols - 4, a.paneRows()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.showHelp {
		return a.viewHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.viewHeader(),
		a.viewPanes(),
		a.viewNotes(),
		a.viewStatusBar(),
	)
}

func (a *App) viewHeader() string {
	name := "no document"
	if doc := a.ports.Presenter.Document(); doc != nil {
		name = doc.Name()
	}

	left := a.styles.Title.Render("duoslide") + "  " + a.styles.Normal.Render(name)
	right := a.styles.Muted.Render(a.state.Mode.Description())
	if a.state.Mode == domain.ModeBlanked {
		right = a.styles.BlankedBadge.Render("BLANKED")
	}

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (a *App) viewPanes() string {
	liveW, liveH := a.livePaneSize()
	prevW, prevH := a.previewPaneSize()

	live := a.paneContent(a.liveBitmap, a.livePage, a.state.CurrentSlide)
	if a.state.Mode == domain.ModeBlanked {
		live = render.Blank(liveW, liveH)
	}
	preview := a.paneContent(a.previewBitmap, a.previewPage, a.state.PreviewSlide)

	liveStyle := a.styles.PreviewPane
	if a.state.Mode.Running() {
		liveStyle = a.styles.LivePane
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		liveStyle.Width(liveW).Height(liveH).Render(live),
		a.styles.PreviewPane.Width(prevW).Height(prevH).Render(preview),
	)
}

// paneContent renders a pane's bitmap, or a placeholder line while the
// render for the wanted page has not arrived yet.
func (a *App) paneContent(bmp image.Image, have, want int) string {
	if bmp == nil || have != want {
		return a.styles.Muted.Render(fmt.Sprintf("rendering slide %d...", want+1))
	}
	return render.Bitmap(bmp)
}

func (a *App) viewNotes() string {
	notes := a.ports.Presenter.NotesFor(a.state.CurrentSlide + 1)
	if notes == "" {
		notes = a.styles.Muted.Render("(no notes for this slide)")
	}
	return a.styles.Notes.Width(a.width).Height(notesRows - 1).Render(notes)
}

func (a *App) viewStatusBar() string {
	parts := []string{
		a.styles.Counter.Render(a.state.Counter()),
		a.styles.Timer.Render(formatElapsed(a.state.Elapsed(a.now))),
		a.styles.Muted.Render(fmt.Sprintf("preview %d", a.state.PreviewSlide+1)),
	}
	if a.err != nil {
		parts = append(parts, a.styles.Error.Render(a.err.Error()))
	}
	parts = append(parts, a.styles.Help.Render("? help"))

	return a.styles.StatusBar.Width(a.width).Render(strings.Join(parts, "  │  "))
}

func (a *App) viewHelp() string {
	var sb strings.Builder
	sb.WriteString(a.styles.Title.Render("Keybindings") + "\n\n")
	for _, group := range a.keys.FullHelp() {
		for _, b := range group {
			h := b.Help()
			sb.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(a.styles.Muted.Render("press any key to close"))
	return sb.String()
}

// formatElapsed renders a duration as mm:ss, or h:mm:ss past an hour.
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Run starts the cockpit and subscribes it to engine notifications.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	a.ports.Presenter.Subscribe(NewListener(func(msg tea.Msg) { p.Send(msg) }))
	_, err := p.Run()
	return err
}

// State returns the last engine snapshot. Test accessor.
func (a *App) State() domain.PresentationState {
	return a.state
}

// Err returns the last command error. Test accessor.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the first resize arrived. Test accessor.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.pushViewSizes()
}
