package tui

import (
	"context"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duoslide/duoslide-cli/internal/adapters/driven/display/static"
	memsource "github.com/duoslide/duoslide-cli/internal/adapters/driven/source/memory"
	memstore "github.com/duoslide/duoslide-cli/internal/adapters/driven/storage/memory"
	"github.com/duoslide/duoslide-cli/internal/adapters/driving/tui/messages"
	"github.com/duoslide/duoslide-cli/internal/core/domain"
	"github.com/duoslide/duoslide-cli/internal/core/services"
)

func testApp(t *testing.T, pages int) (*App, *services.Engine) {
	t.Helper()

	engine := services.NewEngine(
		domain.DefaultEngineConfig(),
		memsource.NewSource(pages),
		memstore.NewSessionStore(),
		memstore.NewHistoryStore(),
		static.New(
			domain.Screen{Bounds: domain.Rect{Width: 1920, Height: 1080}, Primary: true},
			domain.Screen{Bounds: domain.Rect{X: 1920, Width: 800, Height: 600}},
		),
	)
	require.NoError(t, engine.OpenDocument(context.Background(), "/decks/talk.pdf"))

	app, err := NewApp(NewPorts(engine))
	require.NoError(t, err)
	app.SetDimensions(90, 30)
	return app, engine
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "f5":
		return tea.KeyMsg{Type: tea.KeyF5}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestNewApp_RequiresPresenter(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingPresenter)
}

func TestApp_ViewBeforeFirstResize(t *testing.T) {
	engine := services.NewEngine(
		domain.DefaultEngineConfig(),
		memsource.NewSource(3),
		memstore.NewSessionStore(),
		nil,
		static.New(domain.Screen{Bounds: domain.Rect{Width: 100, Height: 100}, Primary: true}),
	)
	app, err := NewApp(NewPorts(engine))
	require.NoError(t, err)

	assert.False(t, app.Ready())
	assert.Contains(t, app.View(), "Initialising")
}

func TestApp_StartAndNavigateThroughKeys(t *testing.T) {
	app, engine := testApp(t, 10)

	app.Update(keyMsg("f5"))
	assert.Equal(t, domain.ModePresenting, engine.State().Mode)

	app.Update(keyMsg("right"))
	app.Update(keyMsg("right"))
	assert.Equal(t, 2, engine.State().CurrentSlide)

	app.Update(keyMsg("left"))
	assert.Equal(t, 1, engine.State().CurrentSlide)

	app.Update(keyMsg("esc"))
	assert.Equal(t, domain.ModeStopped, engine.State().Mode)
}

func TestApp_BlankToggleThroughKeys(t *testing.T) {
	app, engine := testApp(t, 10)

	app.Update(keyMsg("f5"))
	app.Update(keyMsg("b"))
	assert.Equal(t, domain.ModeBlanked, engine.State().Mode)
	app.Update(keyMsg("b"))
	assert.Equal(t, domain.ModePresenting, engine.State().Mode)
}

func TestApp_PreviewCursorKeys(t *testing.T) {
	app, engine := testApp(t, 10)
	app.Update(keyMsg("f5"))

	app.Update(keyMsg("down"))
	app.Update(keyMsg("down"))
	assert.Equal(t, 3, engine.State().PreviewSlide)
	assert.Equal(t, 0, engine.State().CurrentSlide)

	app.Update(keyMsg("up"))
	assert.Equal(t, 2, engine.State().PreviewSlide)

	// Mark, move away, recall.
	app.Update(keyMsg("m"))
	app.Update(keyMsg("["))
	require.NotEqual(t, 2, engine.State().PreviewSlide)
	app.Update(keyMsg("'"))
	assert.Equal(t, 2, engine.State().PreviewSlide)
}

func TestApp_CommandErrorsSurfaceInStatusBar(t *testing.T) {
	app, _ := testApp(t, 10)

	// Blanking while stopped is rejected. The error travels back
	// through the update loop as a CommandFailed message.
	_, cmd := app.Update(keyMsg("b"))
	require.NotNil(t, cmd)
	app.Update(cmd())
	require.Error(t, app.Err())
	assert.Contains(t, app.View(), "not")

	// A successful command clears the sticky error.
	_, cmd = app.Update(keyMsg("f5"))
	assert.Nil(t, cmd)
	assert.NoError(t, app.Err())
}

func TestApp_StateUpdatesDriveTheView(t *testing.T) {
	app, _ := testApp(t, 10)

	app.Update(messages.StateUpdated{State: domain.PresentationState{
		CurrentSlide: 4,
		PreviewSlide: 5,
		PageCount:    10,
		Mode:         domain.ModePresenting,
	}})

	view := app.View()
	assert.Contains(t, view, "5 / 10")
	assert.Contains(t, view, "preview 6")
}

func TestApp_SlideReadyRoutesToLivePane(t *testing.T) {
	app, _ := testApp(t, 10)

	w, h := app.livePaneSize()
	bmp := image.NewRGBA(image.Rect(0, 0, w, h*2))
	for y := 0; y < h*2; y++ {
		for x := 0; x < w; x++ {
			bmp.SetRGBA(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	app.Update(messages.SlideReady{Page: 0, Bitmap: bmp})

	assert.Equal(t, 0, app.livePage)
	view := app.View()
	assert.Contains(t, view, "▀")
	assert.NotContains(t, view, "rendering slide 1")
}

func TestApp_TickAdvancesTimer(t *testing.T) {
	app, engine := testApp(t, 10)
	app.Update(keyMsg("f5"))
	app.Update(messages.StateUpdated{State: engine.State()})

	_, cmd := app.Update(messages.Tick{Now: time.Now().Add(65 * time.Second)})
	assert.NotNil(t, cmd) // reschedules the next tick

	assert.Contains(t, app.View(), "01:0")
}

func TestApp_HelpOverlay(t *testing.T) {
	app, _ := testApp(t, 10)

	app.Update(keyMsg("?"))
	view := app.View()
	assert.Contains(t, view, "Keybindings")
	assert.Contains(t, view, "next slide")

	// Any key closes the overlay.
	app.Update(keyMsg("x"))
	assert.NotContains(t, app.View(), "Keybindings")
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00", formatElapsed(0))
	assert.Equal(t, "00:59", formatElapsed(59*time.Second))
	assert.Equal(t, "12:03", formatElapsed(12*time.Minute+3*time.Second))
	assert.Equal(t, "1:02:03", formatElapsed(time.Hour+2*time.Minute+3*time.Second))
}

func TestApp_ViewContainsDeckName(t *testing.T) {
	app, _ := testApp(t, 10)
	assert.True(t, strings.Contains(app.View(), "talk"))
}
