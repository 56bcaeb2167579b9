package tessera

import (
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// Sound is a short clip decoded fully into memory so it can be played many
// times, overlapping itself.
type Sound struct {
	buffer *beep.Buffer
}

// LoadSound decodes a WAV clip and closes rc.
func LoadSound(rc io.ReadCloser) (*Sound, error) {
	s, format, err := wav.Decode(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("tessera: decode sound: %w", err)
	}
	defer s.Close()
	buf := beep.NewBuffer(format)
	buf.Append(s)
	return &Sound{buffer: buf}, nil
}

// Len returns the clip length in samples.
func (s *Sound) Len() int { return s.buffer.Len() }

// Duration returns the clip length.
func (s *Sound) Duration() time.Duration {
	return s.buffer.Format().SampleRate.D(s.buffer.Len())
}

// Music is a long track streamed from its source while it plays.
type Music struct {
	stream beep.StreamSeekCloser
	format beep.Format
}

// LoadMusic opens a WAV track for streaming. rc stays open until Close.
func LoadMusic(rc io.ReadCloser) (*Music, error) {
	s, format, err := wav.Decode(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("tessera: decode music: %w", err)
	}
	return &Music{stream: s, format: format}, nil
}

// Duration returns the track length.
func (m *Music) Duration() time.Duration {
	return m.format.SampleRate.D(m.stream.Len())
}

// Close releases the track's source.
func (m *Music) Close() error { return m.stream.Close() }

// Audio plays sounds and one music track through the speaker. Sounds and
// music share a mixer; music can be faded or halted independently.
//
// The speaker runs on its own goroutine. Music-end handlers are not called
// there: the end is recorded and the handlers run on the next Instance.Update.
type Audio struct {
	sampleRate  beep.SampleRate
	mixer       *beep.Mixer
	music       *beep.Ctrl
	musicVolume float64

	musicEnded atomic.Pointer[beep.Ctrl] // the last track that ended
	musicEnd   Handlers[*Audio]
}

// NewAudio opens the speaker with the configured sample rate and buffer.
func NewAudio(cfg AudioConfig) (*Audio, error) {
	sr := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(sr, sr.N(time.Duration(cfg.BufferMS)*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("tessera: open speaker: %v: %w", err, ErrBackend)
	}
	a := newAudio(sr)
	speaker.Play(a.mixer)
	return a, nil
}

func newAudio(sr beep.SampleRate) *Audio {
	return &Audio{sampleRate: sr, mixer: &beep.Mixer{}, musicVolume: 1}
}

// MusicEndHandlers returns the handlers raised when music finishes, fades
// out or is halted.
func (a *Audio) MusicEndHandlers() *Handlers[*Audio] { return &a.musicEnd }

func (a *Audio) resample(s beep.Streamer, from beep.SampleRate) beep.Streamer {
	if from == a.sampleRate {
		return s
	}
	return beep.Resample(4, from, a.sampleRate, s)
}

// PlaySound starts s. Several sounds may play at once.
func (a *Audio) PlaySound(s *Sound) {
	st := a.resample(s.buffer.Streamer(0, s.buffer.Len()), s.buffer.Format().SampleRate)
	speaker.Lock()
	a.mixer.Add(st)
	speaker.Unlock()
}

// HaltSounds stops every playing sound. Music keeps playing.
func (a *Audio) HaltSounds() {
	speaker.Lock()
	a.mixer.Clear()
	if a.music != nil {
		a.mixer.Add(a.music)
	}
	speaker.Unlock()
}

// PlayMusic replaces the current track with m, played loops times. A negative
// loops repeats forever; zero plays once.
func (a *Audio) PlayMusic(m *Music, loops int) error {
	if err := m.stream.Seek(0); err != nil {
		return fmt.Errorf("tessera: rewind music: %v: %w", err, ErrBackend)
	}
	if loops == 0 {
		loops = 1
	}
	track := newVolume(a.resample(beep.Loop(loops, m.stream), m.format.SampleRate), a.musicVolume)
	ctrl := &beep.Ctrl{}
	ctrl.Streamer = beep.Seq(track, beep.Callback(func() { a.musicEnded.Store(ctrl) }))

	speaker.Lock()
	if a.music != nil {
		a.music.Streamer = nil
	}
	a.music = ctrl
	a.mixer.Add(ctrl)
	speaker.Unlock()
	return nil
}

// SetMusicVolume sets the gain applied to tracks started afterwards. 1 is
// unchanged, 0 is silent.
func (a *Audio) SetMusicVolume(v float64) { a.musicVolume = max(v, 0) }

// MusicPlaying reports whether a track is playing or fading.
func (a *Audio) MusicPlaying() bool { return a.music != nil }

// FadeOutMusic fades the current track to silence over d and then stops it.
func (a *Audio) FadeOutMusic(d time.Duration) {
	if a.music == nil {
		return
	}
	ctrl := a.music
	speaker.Lock()
	ctrl.Streamer = newFader(ctrl.Streamer, a.sampleRate.N(d), func() { a.musicEnded.Store(ctrl) })
	speaker.Unlock()
}

// HaltMusic stops the current track immediately.
func (a *Audio) HaltMusic() {
	if a.music == nil {
		return
	}
	speaker.Lock()
	a.music.Streamer = nil
	speaker.Unlock()
	a.musicEnded.Store(a.music)
}

// Close stops all playback.
func (a *Audio) Close() {
	speaker.Clear()
	a.music = nil
}

// poll raises the music-end handlers if a track ended since the last call.
// Called from Instance.Update on the game goroutine. A track that was
// replaced before the poll still raises the handlers, but the track playing
// now is kept.
func (a *Audio) poll() {
	ended := a.musicEnded.Swap(nil)
	if ended == nil {
		return
	}
	if ended == a.music {
		a.music = nil
	}
	a.musicEnd.RaiseEvents(a)
}

// newVolume wraps s with a linear gain. Zero gain is handled as silence
// because the log of zero is -Inf.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol == 1 {
		return s
	}
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// fader ramps a stream linearly down to silence over total samples, then
// ends it and calls done once.
type fader struct {
	streamer beep.Streamer
	position int
	total    int
	done     func()
}

func newFader(s beep.Streamer, total int, done func()) *fader {
	return &fader{streamer: s, total: max(total, 1), done: done}
}

func (f *fader) Stream(samples [][2]float64) (n int, ok bool) {
	if f.position >= f.total || f.streamer == nil {
		f.finish()
		return 0, false
	}
	n, ok = f.streamer.Stream(samples)
	n = min(n, f.total-f.position)
	for i := 0; i < n; i++ {
		gain := 1 - float64(f.position)/float64(f.total)
		samples[i][0] *= gain
		samples[i][1] *= gain
		f.position++
	}
	if n == 0 && !ok {
		f.finish()
		return 0, false
	}
	return n, true
}

func (f *fader) Err() error {
	if f.streamer == nil {
		return nil
	}
	return f.streamer.Err()
}

func (f *fader) finish() {
	if f.done != nil {
		f.done()
		f.done = nil
	}
}
