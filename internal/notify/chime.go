package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/speaker"
)

const chimeSampleRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

// PlayChime plays a short two-note ready chime. The notification itself is
// unaffected when audio is unavailable; callers log the error and move on.
func PlayChime() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(chimeSampleRate, chimeSampleRate.N(time.Second/10))
	})
	if speakerErr != nil {
		return fmt.Errorf("init speaker: %w", speakerErr)
	}

	low, err := generators.SinTone(chimeSampleRate, 880)
	if err != nil {
		return fmt.Errorf("generate tone: %w", err)
	}
	high, err := generators.SinTone(chimeSampleRate, 1175)
	if err != nil {
		return fmt.Errorf("generate tone: %w", err)
	}

	chime := beep.Seq(
		beep.Take(chimeSampleRate.N(200*time.Millisecond), low),
		beep.Take(chimeSampleRate.N(300*time.Millisecond), high),
	)
	speaker.Play(&effects.Volume{Streamer: chime, Base: 2, Volume: -1})
	return nil
}
