package brewtimer

import (
	"fmt"
	"log"
	"sync"
	"time"

	"cuppa/internal/core/model"
)

// PresetSource provides the ordered preset list for resume lookups.
type PresetSource interface {
	Presets() []model.Preset
}

// AlarmStore persists the active session so it survives process restarts.
type AlarmStore interface {
	PersistedAlarm() (model.PersistedAlarm, bool, error)
	SavePersistedAlarm(alarm model.PersistedAlarm) error
	ClearPersistedAlarm() error
}

// Notifier schedules the single "tea is ready" alert. Failures are never
// fatal: the in-app countdown stays authoritative either way.
type Notifier interface {
	Schedule(after time.Duration, title, body string) error
	Cancel() error
}

// Config contains runtime options for the Engine.
type Config struct {
	TickInterval time.Duration
}

// Engine is the state machine that owns the single brewing countdown. The
// remaining time is always derived from the session's absolute end time and
// the wall clock, never advanced tick by tick, so any length of process
// suspension yields a correct value on the next recomputation.
type Engine struct {
	mu       sync.Mutex
	presets  PresetSource
	alarms   AlarmStore
	notifier Notifier
	options  Config

	active    bool
	preset    model.Preset
	endTime   time.Time
	remaining int

	events  []chan Event
	stopCh  chan struct{}
	running bool

	now func() time.Time
}

// New creates an Engine wired to its collaborators.
func New(presets PresetSource, alarms AlarmStore, notifier Notifier, options Config) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	return &Engine{
		presets:  presets,
		alarms:   alarms,
		notifier: notifier,
		options:  options,
		stopCh:   make(chan struct{}),
		now:      time.Now,
	}
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	engine.events = append(engine.events, ch)
	engine.mu.Unlock()
	return ch
}

// Run launches the ticking loop.
func (engine *Engine) Run() {
	engine.mu.Lock()
	if engine.running {
		engine.mu.Unlock()
		return
	}
	engine.running = true
	engine.mu.Unlock()

	go engine.run()
}

// Stop terminates the ticking loop and closes observer channels.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	if !engine.running {
		engine.mu.Unlock()
		return
	}
	close(engine.stopCh)
	engine.running = false
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Start begins a fresh countdown for preset, replacing any running session.
// Callers that might discard a running brew are expected to have gone through
// the confirmation gate first; Start itself only performs the replacement.
func (engine *Engine) Start(preset model.Preset) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.startLocked(preset, preset.BrewSeconds, true)
}

// Cancel discards the running session. Safe to call at any time; cancelling
// an idle engine does nothing.
func (engine *Engine) Cancel() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.active {
		return
	}

	now := engine.now()
	// Settle the displayed value before tearing the session down.
	remaining := int(engine.endTime.Sub(now) / time.Second)
	if remaining < 0 {
		remaining = 0
	}
	engine.remaining = remaining
	engine.emitLocked(Event{Type: EventProgress, State: StateBrewing, Preset: engine.preset, Remaining: remaining, At: now})

	engine.clearSessionLocked()
	if err := engine.notifier.Cancel(); err != nil {
		log.Printf("brewtimer: cancel notification: %v", err)
	}
	if err := engine.alarms.ClearPersistedAlarm(); err != nil {
		log.Printf("brewtimer: clear persisted alarm: %v", err)
	}
	engine.emitLocked(Event{Type: EventStateChange, State: StateIdle, At: now})
}

// Resume rehydrates a persisted session at process start. It never schedules
// a new notification: the alert armed before the restart is still pending
// with the notification service. Stale or orphaned alarms are cleared and
// the engine stays idle.
func (engine *Engine) Resume() {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	alarm, ok, err := engine.alarms.PersistedAlarm()
	if err != nil {
		log.Printf("brewtimer: read persisted alarm: %v", err)
		return
	}
	if !ok {
		return
	}

	now := engine.now()
	diff := int(alarm.EndTime.Sub(now) / time.Second)
	if diff <= 0 {
		// The alarm fired, or the clock moved, while the process was gone.
		engine.clearPersistedLocked("stale alarm")
		return
	}

	preset, found := findPreset(engine.presets.Presets(), alarm.PresetID)
	if !found {
		// Preset deleted or renamed since persisting. Do not guess.
		engine.clearPersistedLocked("unknown preset " + alarm.PresetID)
		return
	}

	engine.startLocked(preset, diff, false)
}

// Active reports whether a countdown is running.
func (engine *Engine) Active() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.active
}

// Snapshot returns the current session state for display.
func (engine *Engine) Snapshot() (State, model.Preset, int) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.active {
		return StateIdle, model.Preset{}, 0
	}
	return StateBrewing, engine.preset, engine.remaining
}

func (engine *Engine) startLocked(preset model.Preset, remaining int, fresh bool) {
	now := engine.now()
	engine.active = true
	engine.preset = preset
	engine.remaining = remaining
	// One extra second absorbs tick-boundary rounding: the first tick still
	// shows the full duration and the final tick observes remaining <= 0
	// instead of a lingering 1.
	engine.endTime = now.Add(time.Duration(remaining+1) * time.Second)

	if fresh {
		title := "Brewing complete"
		body := fmt.Sprintf("Your %s is ready", preset.Name)
		if err := engine.notifier.Schedule(time.Duration(remaining)*time.Second, title, body); err != nil {
			log.Printf("brewtimer: schedule notification: %v", err)
		}
	}

	alarm := model.PersistedAlarm{PresetID: preset.ID, EndTime: engine.endTime}
	if err := engine.alarms.SavePersistedAlarm(alarm); err != nil {
		log.Printf("brewtimer: persist alarm: %v", err)
	}

	engine.emitLocked(Event{Type: EventStateChange, State: StateBrewing, Preset: preset, Remaining: remaining, At: now})
}

func (engine *Engine) run() {
	ticker := time.NewTicker(engine.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-engine.stopCh:
			return
		case tickTime := <-ticker.C:
			engine.tick(tickTime)
		}
	}
}

func (engine *Engine) tick(tickTime time.Time) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.active {
		return
	}

	remaining := int(engine.endTime.Sub(tickTime) / time.Second)
	if remaining <= 0 {
		engine.clearSessionLocked()
		if err := engine.alarms.ClearPersistedAlarm(); err != nil {
			log.Printf("brewtimer: clear persisted alarm: %v", err)
		}
		// The notifier's own alert fires around this same moment on its own;
		// it is deliberately left alone here.
		engine.emitLocked(Event{Type: EventStateChange, State: StateIdle, At: tickTime})
		return
	}

	engine.remaining = remaining
	engine.emitLocked(Event{Type: EventProgress, State: StateBrewing, Preset: engine.preset, Remaining: remaining, At: tickTime})
}

func (engine *Engine) clearSessionLocked() {
	engine.active = false
	engine.preset = model.Preset{}
	engine.endTime = time.Time{}
	engine.remaining = 0
}

func (engine *Engine) clearPersistedLocked(reason string) {
	log.Printf("brewtimer: dropping persisted alarm: %s", reason)
	if err := engine.alarms.ClearPersistedAlarm(); err != nil {
		log.Printf("brewtimer: clear persisted alarm: %v", err)
	}
}

func (engine *Engine) emitLocked(event Event) {
	events := append([]chan Event(nil), engine.events...)
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}

func findPreset(presets []model.Preset, id string) (model.Preset, bool) {
	for _, preset := range presets {
		if preset.ID == id {
			return preset, true
		}
	}
	return model.Preset{}, false
}
