package ports

// AudioPlayer is a fire-and-forget notification boundary. The core never
// consults a result; a missing sound is the player's problem, not the
// caller's.
type AudioPlayer interface {
	Play(soundID string)
}
