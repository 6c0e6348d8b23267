package audio

import "sync"

// Recorder queues sound cues for the browser client, which owns actual
// playback. Drain empties the queue; cues are best-effort and never block
// gameplay.
type Recorder struct {
	mu   sync.Mutex
	cues []string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Play(soundID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = append(r.cues, soundID)
}

func (r *Recorder) Drain() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.cues
	r.cues = nil
	return out
}
