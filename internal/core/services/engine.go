package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/duoslide/duoslide-cli/internal/core/domain"
	"github.com/duoslide/duoslide-cli/internal/core/ports/driven"
	"github.com/duoslide/duoslide-cli/internal/core/ports/driving"
	"github.com/duoslide/duoslide-cli/internal/logger"
	"github.com/duoslide/duoslide-cli/internal/notes"
)

// Ensure Engine implements the driving port.
var _ driving.Presenter = (*Engine)(nil)

// Engine is the presentation engine: the authoritative state machine,
// the cross-window synchronization glue and the owner of the slide
// cache, the open document and its notes.
//
// All commands are synchronous; rasterization runs on background
// goroutines and is delivered through the listener fan-out with
// staleness checking, so a superseded render is silently dropped
// instead of flickering an old slide onto the audience window.
type Engine struct {
	cfg      domain.EngineConfig
	source   driven.DocumentSource
	sessions driven.SessionStore
	history  driven.HistoryStore
	displays driven.DisplayEnumerator
	cache    *SlideCache

	mu        sync.Mutex
	listeners []driving.Listener

	doc   *domain.Document
	notes notes.Map
	state domain.PresentationState

	audience     domain.Screen
	audienceSize domain.Size
	previewSize  domain.Size

	lastDir string

	// gen is bumped whenever the document changes; in-flight renders
	// carry the generation they were requested under and results from
	// an older generation are discarded on completion.
	gen uint64

	run *domain.Run

	rememberedPreview int
	hasRemembered     bool

	saveLimiter *rate.Limiter
}

// NewEngine creates an engine over the given collaborators.
// history may be nil; resume then relies on the session store alone.
func NewEngine(
	cfg domain.EngineConfig,
	source driven.DocumentSource,
	sessions driven.SessionStore,
	history driven.HistoryStore,
	displays driven.DisplayEnumerator,
) *Engine {
	return &Engine{
		cfg:         cfg,
		source:      source,
		sessions:    sessions,
		history:     history,
		displays:    displays,
		cache:       NewSlideCache(source, cfg.CacheBudgetBytes),
		state:       domain.PresentationState{Mode: domain.ModeStopped},
		saveLimiter: rate.NewLimiter(rate.Limit(cfg.SavesPerSecond), cfg.SaveBurst),
	}
}

// Subscribe registers a listener for engine notifications.
func (e *Engine) Subscribe(l driving.Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Restore loads the persisted session and re-opens the last deck at
// the slide it was left on. Failures fall back to an empty session;
// nothing here is fatal.
func (e *Engine) Restore(ctx context.Context) {
	session, err := e.sessions.Load(ctx)
	if err != nil {
		logger.Warn("session load failed, starting fresh: %v", err)
		session = domain.Session{}
	}

	e.mu.Lock()
	e.lastDir = session.LastDirectory
	e.mu.Unlock()

	if session.LastPath == "" {
		return
	}

	// Resolve the resume slide before opening: the per-deck history
	// record beats the global session slide, and opening writes a fresh
	// record that would clobber it.
	resume := session.LastSlide
	if e.history != nil {
		if slide, ok, err := e.history.Resume(ctx, session.LastPath); err != nil {
			logger.Warn("history resume lookup failed, using session slide: %v", err)
		} else if ok {
			resume = slide
		}
	}

	if err := e.OpenDocument(ctx, session.LastPath); err != nil {
		logger.Info("previous deck %s no longer opens: %v", session.LastPath, err)
		return
	}

	e.mu.Lock()
	if e.doc != nil {
		e.state.CurrentSlide = e.doc.ClampPage(resume)
		e.state.PreviewSlide = e.doc.ClampPage(e.state.CurrentSlide + 1)
	}
	e.mu.Unlock()

	e.notifyState()
	e.renderViews(false)
}

// OpenDocument implements driving.Presenter.
func (e *Engine) OpenDocument(ctx context.Context, path string) error {
	doc, err := e.source.Open(ctx, path)
	if err != nil {
		// The previous document, if any, stays active.
		return fmt.Errorf("opening document: %w", err)
	}

	m, err := notes.Load(doc.NotesPath())
	if err != nil {
		logger.Warn("notes sidecar unreadable, continuing without: %v", err)
		m = notes.Map{}
	} else if m.Len() > 0 {
		logger.Info("loaded notes for %d slides from %s", m.Len(), doc.NotesPath())
	}

	e.mu.Lock()
	e.doc = doc
	e.notes = m
	e.cache.Clear()
	e.gen++
	e.run = nil
	e.hasRemembered = false
	e.state = domain.PresentationState{
		Mode:         domain.ModeStopped,
		PageCount:    doc.PageCount,
		CurrentSlide: 0,
		PreviewSlide: doc.ClampPage(1),
	}
	e.lastDir = filepath.Dir(path)
	e.mu.Unlock()

	e.saveSessionNow(ctx)
	e.notifyState()
	e.renderViews(false)
	return nil
}

// ReloadNotes re-parses the open document's sidecar. Used by the notes
// watcher when the file changes during a presentation.
func (e *Engine) ReloadNotes() {
	e.mu.Lock()
	doc := e.doc
	e.mu.Unlock()
	if doc == nil {
		return
	}

	m, err := notes.Load(doc.NotesPath())
	if err != nil {
		logger.Warn("notes reload failed: %v", err)
		return
	}

	e.mu.Lock()
	e.notes = m
	e.mu.Unlock()
	e.notifyState()
}

// StartFromBeginning implements driving.Presenter.
func (e *Engine) StartFromBeginning(ctx context.Context) error {
	return e.start(ctx, true)
}

// StartFromCurrent implements driving.Presenter.
func (e *Engine) StartFromCurrent(ctx context.Context) error {
	return e.start(ctx, false)
}

func (e *Engine) start(ctx context.Context, fromBeginning bool) error {
	screens, err := e.displays.Screens(ctx)
	if err != nil {
		return fmt.Errorf("enumerating displays: %w", err)
	}
	target, err := domain.PickAudienceScreen(screens)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if e.doc == nil {
		e.mu.Unlock()
		return domain.ErrNoDocument
	}
	if e.state.Mode.Running() {
		e.mu.Unlock()
		return nil // already presenting
	}

	if fromBeginning {
		e.state.CurrentSlide = 0
		e.state.PreviewSlide = e.doc.ClampPage(1)
	}
	e.state.Mode = domain.ModePresenting
	e.state.StartedAt = time.Now()
	e.audience = target
	if e.audienceSize.IsZero() {
		e.audienceSize = target.Size()
	}
	e.run = &domain.Run{
		ID:        uuid.NewString(),
		Path:      e.doc.Path,
		StartedAt: e.state.StartedAt,
	}
	e.repinLocked()
	e.mu.Unlock()

	logger.Info("presenting on %vx%v screen (primary=%v)",
		target.Bounds.Width, target.Bounds.Height, target.Primary)

	e.notifyState()
	e.renderViews(true)
	return nil
}

// Stop implements driving.Presenter.
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	if !e.state.Mode.Running() {
		e.mu.Unlock()
		return nil
	}

	now := time.Now()
	e.state.Accumulated += now.Sub(e.state.StartedAt)
	e.state.StartedAt = time.Time{}
	e.state.Mode = domain.ModeStopped
	e.cache.Unpin()

	run := e.run
	e.run = nil
	if run != nil {
		run.EndedAt = now
	}
	e.mu.Unlock()

	if run != nil && e.history != nil {
		if err := e.history.RecordRun(ctx, *run); err != nil {
			logger.Warn("recording run: %v", err)
		}
	}
	e.saveSessionNow(ctx)
	e.notifyState()
	return nil
}

// Next implements driving.Presenter. The live slide advances to the
// preview cursor, which in the untouched default (current+1) is plain
// forward navigation. A no-op at the last slide.
func (e *Engine) Next(ctx context.Context) error {
	e.mu.Lock()
	if e.doc == nil {
		e.mu.Unlock()
		return domain.ErrNoDocument
	}

	target := e.doc.ClampPage(e.state.PreviewSlide)
	if target == e.state.CurrentSlide {
		target = e.doc.ClampPage(e.state.CurrentSlide + 1)
	}
	if target == e.state.CurrentSlide {
		e.mu.Unlock()
		return nil // already at the last slide
	}

	e.state.CurrentSlide = target
	e.state.PreviewSlide = e.doc.ClampPage(target + 1)
	e.afterNavigationLocked()
	e.mu.Unlock()

	e.finishNavigation(ctx)
	return nil
}

// Previous implements driving.Presenter. A no-op at the first slide.
func (e *Engine) Previous(ctx context.Context) error {
	e.mu.Lock()
	if e.doc == nil {
		e.mu.Unlock()
		return domain.ErrNoDocument
	}
	if e.state.CurrentSlide == 0 {
		e.mu.Unlock()
		return nil
	}

	e.state.CurrentSlide--
	e.state.PreviewSlide = e.doc.ClampPage(e.state.CurrentSlide + 1)
	e.afterNavigationLocked()
	e.mu.Unlock()

	e.finishNavigation(ctx)
	return nil
}

// ToggleBlank implements driving.Presenter. Blanking never changes the
// slide position: navigation stays live while Blanked so Unblank shows
// the slide reached, not the slide at blank time.
func (e *Engine) ToggleBlank(_ context.Context) error {
	e.mu.Lock()
	switch e.state.Mode {
	case domain.ModePresenting:
		e.state.Mode = domain.ModeBlanked
	case domain.ModeBlanked:
		e.state.Mode = domain.ModePresenting
	default:
		e.mu.Unlock()
		return domain.ErrNotPresenting
	}
	e.mu.Unlock()

	e.notifyState()
	e.renderViews(false)
	return nil
}

// PreviewNext implements driving.Presenter.
func (e *Engine) PreviewNext(ctx context.Context) error {
	return e.movePreview(ctx, func(st domain.PresentationState) int {
		return st.PreviewSlide + 1
	})
}

// PreviewPrevious implements driving.Presenter.
func (e *Engine) PreviewPrevious(ctx context.Context) error {
	return e.movePreview(ctx, func(st domain.PresentationState) int {
		return st.PreviewSlide - 1
	})
}

// PreviewSetNext implements driving.Presenter.
func (e *Engine) PreviewSetNext(ctx context.Context) error {
	return e.movePreview(ctx, func(st domain.PresentationState) int {
		return st.CurrentSlide + 1
	})
}

// PreviewSetPrevious implements driving.Presenter.
func (e *Engine) PreviewSetPrevious(ctx context.Context) error {
	return e.movePreview(ctx, func(st domain.PresentationState) int {
		return st.CurrentSlide - 1
	})
}

// PreviewRemember implements driving.Presenter.
func (e *Engine) PreviewRemember(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return domain.ErrNoDocument
	}
	e.rememberedPreview = e.state.PreviewSlide
	e.hasRemembered = true
	return nil
}

// PreviewRecall implements driving.Presenter.
func (e *Engine) PreviewRecall(ctx context.Context) error {
	e.mu.Lock()
	if e.doc == nil || !e.hasRemembered {
		e.mu.Unlock()
		if e.doc == nil {
			return domain.ErrNoDocument
		}
		return nil
	}
	remembered := e.rememberedPreview
	e.mu.Unlock()

	return e.movePreview(ctx, func(domain.PresentationState) int {
		return remembered
	})
}

// movePreview applies a preview cursor move and prefetches the slide
// it now points at, at the preview's own target size.
func (e *Engine) movePreview(ctx context.Context, target func(domain.PresentationState) int) error {
	e.mu.Lock()
	if e.doc == nil {
		e.mu.Unlock()
		return domain.ErrNoDocument
	}

	moved := e.doc.ClampPage(target(e.state))
	if moved == e.state.PreviewSlide {
		e.mu.Unlock()
		return nil
	}
	e.state.PreviewSlide = moved
	preview := e.previewSize
	e.mu.Unlock()

	if !preview.IsZero() {
		e.cache.Prefetch(context.WithoutCancel(ctx), moved, preview.Width, preview.Height)
	}
	e.notifyState()
	return nil
}

// PointerMoved implements driving.Presenter. Both boxes are normalized
// against the page's native aspect ratio, and the mapping is recomputed
// from scratch on every event; nothing is cached across resizes.
func (e *Engine) PointerMoved(_ context.Context, pos domain.Point, previewBox domain.Rect) error {
	e.mu.Lock()
	if !e.state.Mode.Running() || e.doc == nil {
		e.mu.Unlock()
		return domain.ErrNotPresenting
	}
	audienceBox := e.audience.Bounds
	aw, ah := e.doc.AspectRatio()
	e.mu.Unlock()

	mapped, ok := domain.MapPoint(pos, previewBox, audienceBox, aw, ah)
	for _, l := range e.snapshotListeners() {
		l.PointerMapped(mapped, ok)
	}
	return nil
}

// SetViewSizes implements driving.Presenter.
func (e *Engine) SetViewSizes(audience, preview domain.Size) {
	e.mu.Lock()
	changed := audience != e.audienceSize || preview != e.previewSize
	e.audienceSize = audience
	e.previewSize = preview
	if changed && e.state.Mode.Running() {
		e.repinLocked()
	}
	hasDoc := e.doc != nil
	e.mu.Unlock()

	// A resize quantizes to new cache keys; re-render for the new sizes.
	if changed && hasDoc {
		e.renderViews(false)
	}
}

// State implements driving.Presenter.
func (e *Engine) State() domain.PresentationState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Document implements driving.Presenter.
func (e *Engine) Document() *domain.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc
}

// NotesFor implements driving.Presenter. Slide indices are 1-based.
func (e *Engine) NotesFor(slide int) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.notes.Get(slide)
}

// Cache exposes the slide cache for wiring and tests.
func (e *Engine) Cache() *SlideCache {
	return e.cache
}

// afterNavigationLocked updates pins and run accounting after the live
// slide moved. Caller must hold the lock.
func (e *Engine) afterNavigationLocked() {
	if e.run != nil {
		e.run.SlidesVisited++
	}
	if e.state.Mode.Running() {
		e.repinLocked()
	}
}

// repinLocked pins the slides around the live one at the audience
// render size. Caller must hold the lock.
func (e *Engine) repinLocked() {
	if e.audienceSize.IsZero() || e.doc == nil {
		return
	}
	var pages []int
	for d := -e.cfg.PinRadius; d <= e.cfg.PinRadius; d++ {
		p := e.state.CurrentSlide + d
		if e.doc.ValidPage(p) {
			pages = append(pages, p)
		}
	}
	e.cache.Pin(pages, e.audienceSize.Width, e.audienceSize.Height)
}

// finishNavigation runs the shared post-navigation path outside the
// lock: render requests, throttled persistence, state fan-out.
func (e *Engine) finishNavigation(ctx context.Context) {
	e.notifyState()
	e.renderViews(true)
	e.saveSessionThrottled(ctx)
}

// renderViews requests the current slide at the audience size and the
// preview slide at the preview size, and (with prefetch) warms the
// slide after the current one so the audience-visible transition comes
// from cache in the common case. Requests run on background goroutines;
// completions are delivered via SlideBitmapReady after a staleness
// check. While Blanked the audience window keeps showing black, but
// rendering proceeds so Unblank is instant.
func (e *Engine) renderViews(prefetch bool) {
	e.mu.Lock()
	doc := e.doc
	st := e.state
	audience := e.audienceSize
	preview := e.previewSize
	gen := e.gen
	e.mu.Unlock()

	if doc == nil {
		return
	}

	ctx := context.Background()
	if !audience.IsZero() {
		e.requestSlide(ctx, gen, st.CurrentSlide, audience)
		if prefetch && doc.ValidPage(st.CurrentSlide+1) {
			e.cache.Prefetch(ctx, st.CurrentSlide+1, audience.Width, audience.Height)
		}
	}
	if !preview.IsZero() {
		e.requestSlide(ctx, gen, st.CurrentSlide, preview)
		if doc.ValidPage(st.PreviewSlide) && st.PreviewSlide != st.CurrentSlide {
			e.requestSlide(ctx, gen, st.PreviewSlide, preview)
		}
	}
}

// requestSlide renders one page in the background and delivers the
// bitmap to listeners if the result is still relevant: same document
// generation, page still on screen, size still current. Anything else
// is dropped silently.
func (e *Engine) requestSlide(ctx context.Context, gen uint64, page int, size domain.Size) {
	go func() {
		bmp, err := e.cache.Get(ctx, page, size.Width, size.Height)
		if err != nil {
			logger.Warn("render request for page %d failed: %v", page, err)
			return
		}

		e.mu.Lock()
		relevant := gen == e.gen &&
			(page == e.state.CurrentSlide || page == e.state.PreviewSlide) &&
			(size == e.audienceSize || size == e.previewSize)
		listeners := make([]driving.Listener, len(e.listeners))
		copy(listeners, e.listeners)
		e.mu.Unlock()

		if !relevant {
			return
		}
		for _, l := range listeners {
			l.SlideBitmapReady(page, bmp)
		}
	}()
}

// notifyState fans the current state out to all listeners.
func (e *Engine) notifyState() {
	e.mu.Lock()
	st := e.state
	e.mu.Unlock()

	for _, l := range e.snapshotListeners() {
		l.StateChanged(st)
	}
}

func (e *Engine) snapshotListeners() []driving.Listener {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]driving.Listener, len(e.listeners))
	copy(out, e.listeners)
	return out
}

// saveSessionNow persists the session unconditionally (open, stop).
func (e *Engine) saveSessionNow(ctx context.Context) {
	e.saveSession(ctx)
}

// saveSessionThrottled persists on slide change, rate limited so rapid
// navigation does not turn into an I/O storm. Skipped saves are made
// up for by the unconditional save on stop.
func (e *Engine) saveSessionThrottled(ctx context.Context) {
	if !e.saveLimiter.Allow() {
		return
	}
	e.saveSession(ctx)
}

func (e *Engine) saveSession(ctx context.Context) {
	e.mu.Lock()
	session := domain.Session{LastDirectory: e.lastDir}
	var path string
	var slide int
	if e.doc != nil {
		session.LastPath = e.doc.Path
		session.LastSlide = e.state.CurrentSlide
		path, slide = e.doc.Path, e.state.CurrentSlide
	}
	e.mu.Unlock()

	if err := e.sessions.Save(ctx, session); err != nil {
		logger.Warn("session save failed: %v", err)
	}
	if e.history != nil && path != "" {
		if err := e.history.SaveResume(ctx, path, slide); err != nil {
			logger.Warn("resume save failed: %v", err)
		}
	}
}
