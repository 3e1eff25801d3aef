package audio

import "sync"

// Listener is the context's single listener: the reference point spatial
// panners render relative to. Panner nodes themselves (and the HRTF data
// they would need) live outside this engine, so nothing here reads the
// listener yet — it exists so the control surface is complete and so a
// panner processor added later has a place to pull position from.
//
// A position update is a multi-word value, so it cannot ride a single hot
// atomic the way an oscillator's type does; a panner's render half would
// receive it through its node's message queue instead, like an
// oscillator's PeriodicWave swap. Until such a consumer exists the
// Listener just stores the latest values under a mutex on the control
// side.
type Listener struct {
	mu       sync.Mutex
	position [3]float64
	forward  [3]float64
	up       [3]float64
}

func newListener() *Listener {
	return &Listener{
		forward: [3]float64{0, 0, -1},
		up:      [3]float64{0, 1, 0},
	}
}

// SetPosition moves the listener to (x, y, z).
func (l *Listener) SetPosition(x, y, z float64) {
	l.mu.Lock()
	l.position = [3]float64{x, y, z}
	l.mu.Unlock()
}

// Position returns the listener's current position.
func (l *Listener) Position() (x, y, z float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position[0], l.position[1], l.position[2]
}

// SetOrientation sets the listener's forward and up vectors.
func (l *Listener) SetOrientation(fx, fy, fz, ux, uy, uz float64) {
	l.mu.Lock()
	l.forward = [3]float64{fx, fy, fz}
	l.up = [3]float64{ux, uy, uz}
	l.mu.Unlock()
}

// Orientation returns the listener's forward and up vectors.
func (l *Listener) Orientation() (forward, up [3]float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.forward, l.up
}
