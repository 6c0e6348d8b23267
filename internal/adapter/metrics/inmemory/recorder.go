package inmemory

import "sync"

type Snapshot struct {
	ScenesCreated  uint64 `json:"scenes_created"`
	SnapshotsSaved uint64 `json:"snapshots_saved"`
	SaveFailures   uint64 `json:"save_failures"`
	LoadFallbacks  uint64 `json:"load_fallbacks"`
}

// Recorder counts persistence-boundary outcomes in process memory. Exposed
// read-only through the ops endpoint; lost saves show up here long before
// anyone files a bug.
type Recorder struct {
	mu             sync.Mutex
	scenesCreated  uint64
	snapshotsSaved uint64
	saveFailures   uint64
	loadFallbacks  uint64
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) RecordSceneCreated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenesCreated++
}

func (r *Recorder) RecordSnapshotSaved() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshotsSaved++
}

func (r *Recorder) RecordSaveFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveFailures++
}

func (r *Recorder) RecordLoadFallback() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadFallbacks++
}

// SnapshotAny satisfies the ops endpoint, which renders whatever it gets.
func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		ScenesCreated:  r.scenesCreated,
		SnapshotsSaved: r.snapshotsSaved,
		SaveFailures:   r.saveFailures,
		LoadFallbacks:  r.loadFallbacks,
	}
}
