package layout

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/GregMSThompson/dashboard-builder/pkg/logger"
)

// DefaultDebounce is the quiet period between the last change and the save.
const DefaultDebounce = time.Second

// saveTimeout bounds a save started by the debounce timer.
const saveTimeout = 30 * time.Second

// Saver persists a complete layout.
type Saver interface {
	SaveLayout(ctx context.Context, slug string, items []Item) (SaveReport, error)
}

type Option func(*Engine)

func WithDebounce(d time.Duration) Option {
	return func(e *Engine) { e.debounce = d }
}

func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithSaveHook is called after every save, from the saving goroutine.
func WithSaveHook(fn func(SaveReport, error)) Option {
	return func(e *Engine) { e.hook = fn }
}

// Engine holds the current layout of one dashboard. Changes are accepted only
// while editable and when no save is running; the latest layout is saved once
// the debounce period passes without further changes.
type Engine struct {
	mu       sync.Mutex
	slug     string
	items    []Item
	editable bool
	saving   bool
	dirty    bool
	last     SaveReport

	// held for the duration of a save
	saveMu sync.Mutex

	timerMu sync.Mutex
	timer   *time.Timer

	saver    Saver
	debounce time.Duration
	log      *slog.Logger
	hook     func(SaveReport, error)
}

func NewEngine(slug string, items []Item, saver Saver, opts ...Option) *Engine {
	e := &Engine{
		slug:     slug,
		saver:    saver,
		debounce: DefaultDebounce,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.items = normalizeAll(items, nil)
	return e
}

func (e *Engine) SetEditable(on bool) {
	e.mu.Lock()
	e.editable = on
	e.mu.Unlock()
}

func (e *Engine) Editable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editable
}

func (e *Engine) Saving() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saving
}

// Pending reports whether there are changes not yet handed to the saver.
func (e *Engine) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

func (e *Engine) Items() []Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.items)
}

func (e *Engine) Item(id string) (Item, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, it := range e.items {
		if it.I == id {
			return it, true
		}
	}
	return Item{}, false
}

// LastReport returns the outcome of the most recent save.
func (e *Engine) LastReport() SaveReport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Reset replaces the layout with freshly fetched state and drops any pending
// change.
func (e *Engine) Reset(items []Item) {
	e.stopTimer()
	e.mu.Lock()
	e.items = normalizeAll(items, nil)
	e.dirty = false
	e.mu.Unlock()
}

// Remove drops a widget from the layout without scheduling a save.
func (e *Engine) Remove(id string) {
	e.mu.Lock()
	e.items = slices.DeleteFunc(e.items, func(it Item) bool { return it.I == id })
	e.mu.Unlock()
}

// OnLayoutChange accepts a drag or resize. items may be the whole layout or
// only the widgets that moved; they are merged into the current layout by id.
// It returns false and changes nothing unless the engine is editable and idle.
func (e *Engine) OnLayoutChange(items []Item) bool {
	e.mu.Lock()
	if !e.editable || e.saving {
		e.mu.Unlock()
		return false
	}
	e.items = merge(e.items, normalizeAll(items, e.items))
	e.dirty = true
	e.mu.Unlock()

	e.restartTimer()
	return true
}

// Flush saves pending changes now. It waits for a save already in progress.
func (e *Engine) Flush(ctx context.Context) (SaveReport, error) {
	e.stopTimer()
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	e.mu.Lock()
	if !e.dirty {
		e.mu.Unlock()
		return SaveReport{}, nil
	}
	e.saving = true
	e.dirty = false
	items := slices.Clone(e.items)
	e.mu.Unlock()

	report, err := e.saver.SaveLayout(ctx, e.slug, items)

	e.mu.Lock()
	e.saving = false
	e.last = report
	e.mu.Unlock()

	log := e.log.With("dashboard", e.slug)
	switch {
	case err != nil:
		log.Error("layout save failed", "items", len(items), "error", err)
	case len(report.Failed) > 0:
		for _, f := range report.Failed {
			log.Warn("layout item not saved", "component_id", f.ComponentID, "error", f.Message)
		}
	default:
		log.Debug("layout saved", "items", len(report.Saved), "batched", report.Batched)
	}
	if e.hook != nil {
		e.hook(report, err)
	}
	return report, err
}

// Close stops the timer and saves whatever is pending.
func (e *Engine) Close(ctx context.Context) (SaveReport, error) {
	e.SetEditable(false)
	return e.Flush(ctx)
}

func (e *Engine) restartTimer() {
	e.timerMu.Lock()
	defer e.timerMu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.debounce, e.fire)
}

func (e *Engine) stopTimer() {
	e.timerMu.Lock()
	defer e.timerMu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Engine) fire() {
	ctx, cancel := context.WithTimeout(logger.ToContext(context.Background(), e.log), saveTimeout)
	defer cancel()
	_, _ = e.Flush(ctx)
}

// normalizeAll clamps every item. Static items keep their previous placement.
func normalizeAll(items, prev []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if old, ok := find(prev, it.I); ok && old.Static {
			out = append(out, old)
			continue
		}
		out = append(out, Normalize(it))
	}
	return out
}

// merge replaces items of prev with their changed version, keeping prev's
// order, and appends changed items prev does not hold.
func merge(prev, changed []Item) []Item {
	out := slices.Clone(prev)
	for _, it := range changed {
		if i := slices.IndexFunc(out, func(o Item) bool { return o.I == it.I }); i >= 0 {
			out[i] = it
			continue
		}
		out = append(out, it)
	}
	return out
}

func find(items []Item, id string) (Item, bool) {
	for _, it := range items {
		if it.I == id {
			return it, true
		}
	}
	return Item{}, false
}
