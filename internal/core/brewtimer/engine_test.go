package brewtimer

import (
	"errors"
	"testing"
	"time"

	"cuppa/internal/core/model"

	"github.com/stretchr/testify/assert"
)

type fakePresets struct {
	presets []model.Preset
}

func (source *fakePresets) Presets() []model.Preset {
	return source.presets
}

type fakeAlarmStore struct {
	alarm      model.PersistedAlarm
	hasAlarm   bool
	saveCalls  int
	clearCalls int
	saveErr    error
}

func (store *fakeAlarmStore) PersistedAlarm() (model.PersistedAlarm, bool, error) {
	return store.alarm, store.hasAlarm, nil
}

func (store *fakeAlarmStore) SavePersistedAlarm(alarm model.PersistedAlarm) error {
	store.saveCalls++
	if store.saveErr != nil {
		return store.saveErr
	}
	store.alarm = alarm
	store.hasAlarm = true
	return nil
}

func (store *fakeAlarmStore) ClearPersistedAlarm() error {
	store.clearCalls++
	store.hasAlarm = false
	store.alarm = model.PersistedAlarm{}
	return nil
}

type fakeNotifier struct {
	scheduleCalls int
	cancelCalls   int
	lastAfter     time.Duration
	lastTitle     string
	lastBody      string
	scheduleErr   error
	cancelErr     error
}

func (notifier *fakeNotifier) Schedule(after time.Duration, title, body string) error {
	notifier.scheduleCalls++
	notifier.lastAfter = after
	notifier.lastTitle = title
	notifier.lastBody = body
	return notifier.scheduleErr
}

func (notifier *fakeNotifier) Cancel() error {
	notifier.cancelCalls++
	return notifier.cancelErr
}

type fakeClock struct {
	current time.Time
}

func (clock *fakeClock) now() time.Time {
	return clock.current
}

func (clock *fakeClock) advance(delta time.Duration) {
	clock.current = clock.current.Add(delta)
}

var (
	blackTea = model.NewPreset("Black Tea", 240, "100°C", "black")
	greenTea = model.NewPreset("Green Tea", 150, "80°C", "green")
)

func newTestEngine(presets ...model.Preset) (*Engine, *fakeAlarmStore, *fakeNotifier, *fakeClock) {
	if len(presets) == 0 {
		presets = []model.Preset{blackTea, greenTea}
	}
	store := &fakeAlarmStore{}
	notifier := &fakeNotifier{}
	clock := &fakeClock{current: time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)}
	engine := New(&fakePresets{presets: presets}, store, notifier, Config{})
	engine.now = clock.now
	return engine, store, notifier, clock
}

// tickAt simulates the periodic recomputation firing slightly after a whole
// second boundary, the way a real ticker does.
func tickAt(engine *Engine, start time.Time, offset time.Duration) {
	engine.tick(start.Add(offset + 100*time.Millisecond))
}

func TestStartSchedulesAndPersists(t *testing.T) {
	engine, store, notifier, clock := newTestEngine()
	start := clock.current

	engine.Start(blackTea)

	state, preset, remaining := engine.Snapshot()
	assert.Equal(t, StateBrewing, state)
	assert.Equal(t, blackTea.ID, preset.ID)
	assert.Equal(t, 240, remaining)

	assert.Equal(t, 1, notifier.scheduleCalls)
	assert.Equal(t, 240*time.Second, notifier.lastAfter)
	assert.Contains(t, notifier.lastBody, "Black Tea")

	assert.Equal(t, 1, store.saveCalls)
	assert.Equal(t, blackTea.ID, store.alarm.PresetID)
	assert.Equal(t, start.Add(241*time.Second), store.alarm.EndTime)
}

func TestTickCountsDownMonotonically(t *testing.T) {
	engine, _, _, clock := newTestEngine()
	start := clock.current

	engine.Start(blackTea)

	previous := 240
	for second := 1; second <= 10; second++ {
		tickAt(engine, start, time.Duration(second)*time.Second)
		_, _, remaining := engine.Snapshot()
		assert.LessOrEqual(t, remaining, previous, "remaining must never increase")
		assert.GreaterOrEqual(t, remaining, 0, "remaining must never go negative")
		previous = remaining
	}
	assert.Equal(t, 230, previous)
}

func TestTickCompletion(t *testing.T) {
	engine, store, notifier, clock := newTestEngine()
	start := clock.current

	engine.Start(blackTea)
	tickAt(engine, start, 240*time.Second)

	state, preset, remaining := engine.Snapshot()
	assert.Equal(t, StateIdle, state)
	assert.Empty(t, preset.ID)
	assert.Zero(t, remaining)
	assert.Equal(t, 1, store.clearCalls)
	assert.False(t, store.hasAlarm)
	// The alert the notifier armed at start fires on its own; completion must
	// not cancel it.
	assert.Zero(t, notifier.cancelCalls)
}

func TestCancel(t *testing.T) {
	engine, store, notifier, clock := newTestEngine()

	engine.Start(blackTea)
	clock.advance(10 * time.Second)
	engine.Cancel()

	state, _, remaining := engine.Snapshot()
	assert.Equal(t, StateIdle, state)
	assert.Zero(t, remaining)
	assert.Equal(t, 1, notifier.cancelCalls)
	assert.Equal(t, 1, store.clearCalls)
	assert.False(t, store.hasAlarm)
}

func TestCancelIsIdempotent(t *testing.T) {
	engine, store, notifier, _ := newTestEngine()

	engine.Start(blackTea)
	engine.Cancel()
	engine.Cancel()

	assert.Equal(t, 1, notifier.cancelCalls, "second cancel must not repeat side effects")
	assert.Equal(t, 1, store.clearCalls)
	assert.False(t, engine.Active())
}

func TestCancelWhileIdle(t *testing.T) {
	engine, store, notifier, _ := newTestEngine()

	engine.Cancel()

	assert.False(t, engine.Active())
	assert.Zero(t, notifier.cancelCalls)
	assert.Zero(t, store.clearCalls)
}

func TestResumeRehydratesWithoutRescheduling(t *testing.T) {
	engine, store, notifier, clock := newTestEngine()
	store.alarm = model.PersistedAlarm{PresetID: blackTea.ID, EndTime: clock.current.Add(37 * time.Second)}
	store.hasAlarm = true

	engine.Resume()
	tickAt(engine, clock.current, 0)

	state, preset, remaining := engine.Snapshot()
	assert.Equal(t, StateBrewing, state)
	assert.Equal(t, blackTea.ID, preset.ID)
	assert.Contains(t, []int{36, 37}, remaining)
	assert.Zero(t, notifier.scheduleCalls, "resume must not schedule a new notification")
	assert.Equal(t, 1, store.saveCalls, "resume rewrites the persisted alarm")
}

func TestResumeStaleAlarm(t *testing.T) {
	tests := []struct {
		name   string
		offset time.Duration
	}{
		{name: "end time in the past", offset: -5 * time.Second},
		{name: "end time right now", offset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, store, notifier, clock := newTestEngine()
			store.alarm = model.PersistedAlarm{PresetID: blackTea.ID, EndTime: clock.current.Add(tt.offset)}
			store.hasAlarm = true

			engine.Resume()

			assert.False(t, engine.Active())
			assert.Equal(t, 1, store.clearCalls)
			assert.Zero(t, notifier.scheduleCalls)
		})
	}
}

func TestResumeUnknownPreset(t *testing.T) {
	engine, store, _, clock := newTestEngine()
	store.alarm = model.PersistedAlarm{PresetID: "oolong", EndTime: clock.current.Add(time.Minute)}
	store.hasAlarm = true

	engine.Resume()

	assert.False(t, engine.Active())
	assert.Equal(t, 1, store.clearCalls)
}

func TestResumeWithNoPersistedAlarm(t *testing.T) {
	engine, store, _, _ := newTestEngine()

	engine.Resume()

	assert.False(t, engine.Active())
	assert.Zero(t, store.clearCalls)
}

func TestReplacementStart(t *testing.T) {
	engine, store, notifier, clock := newTestEngine()
	start := clock.current

	engine.Start(blackTea)
	clock.advance(10 * time.Second)
	engine.Start(greenTea)

	state, preset, remaining := engine.Snapshot()
	assert.Equal(t, StateBrewing, state)
	assert.Equal(t, greenTea.ID, preset.ID)
	assert.Equal(t, 150, remaining)

	assert.Equal(t, 2, notifier.scheduleCalls)
	assert.Equal(t, 150*time.Second, notifier.lastAfter)
	// The superseded alert is left to the notification service; the engine
	// does not cancel it on replacement.
	assert.Zero(t, notifier.cancelCalls)

	assert.Equal(t, greenTea.ID, store.alarm.PresetID)
	assert.Equal(t, start.Add(161*time.Second), store.alarm.EndTime)
}

func TestCollaboratorFailuresAreNonFatal(t *testing.T) {
	engine, store, notifier, _ := newTestEngine()
	store.saveErr = errors.New("disk full")
	notifier.scheduleErr = errors.New("no notification daemon")
	notifier.cancelErr = errors.New("no notification daemon")

	engine.Start(blackTea)
	assert.True(t, engine.Active(), "countdown state stays authoritative")

	engine.Cancel()
	assert.False(t, engine.Active())
}

func TestSessionInvariant(t *testing.T) {
	engine, _, _, _ := newTestEngine()

	engine.Start(blackTea)
	assert.True(t, engine.active)
	assert.NotEmpty(t, engine.preset.ID)
	assert.False(t, engine.endTime.IsZero())

	engine.Cancel()
	assert.False(t, engine.active)
	assert.Empty(t, engine.preset.ID)
	assert.True(t, engine.endTime.IsZero())
	assert.Zero(t, engine.remaining)
}

func TestSubscribeReceivesEvents(t *testing.T) {
	engine, _, _, clock := newTestEngine()
	events := engine.Subscribe(10)

	engine.Start(blackTea)
	tickAt(engine, clock.current, time.Second)
	engine.Cancel()

	collected := drainEvents(events)
	assert.NotEmpty(t, collected)
	assert.Equal(t, EventStateChange, collected[0].Type)
	assert.Equal(t, StateBrewing, collected[0].State)
	assert.Equal(t, EventStateChange, collected[len(collected)-1].Type)
	assert.Equal(t, StateIdle, collected[len(collected)-1].State)

	sawProgress := false
	for _, event := range collected {
		if event.Type == EventProgress {
			sawProgress = true
		}
	}
	assert.True(t, sawProgress)
}

func drainEvents(events <-chan Event) []Event {
	var collected []Event
	for {
		select {
		case event := <-events:
			collected = append(collected, event)
		default:
			return collected
		}
	}
}
