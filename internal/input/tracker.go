// Package input tracks whether the user is touching the screen.
package input

import "sync/atomic"

// Tracker follows the gesture lifecycle of a single pan responder. It holds
// one flag: set on grant, cleared on release or terminate. Hooks may be
// called from the input goroutine while the frame loop reads Touching.
type Tracker struct {
	touching atomic.Bool
	grants   atomic.Int64
}

func NewTracker() *Tracker { return &Tracker{} }

// OnStartShouldSet always claims the gesture.
func (t *Tracker) OnStartShouldSet() bool { return true }

func (t *Tracker) OnGrant() {
	t.touching.Store(true)
	t.grants.Add(1)
}

func (t *Tracker) OnRelease() { t.touching.Store(false) }

func (t *Tracker) OnTerminate() { t.touching.Store(false) }

// ShouldBlockNative is false: gestures still reach sibling views.
func (t *Tracker) ShouldBlockNative() bool { return false }

func (t *Tracker) Touching() bool { return t.touching.Load() }

// Grants counts gestures granted since creation.
func (t *Tracker) Grants() int64 { return t.grants.Load() }

// Toggle grants when idle and releases when touching, for inputs that have
// no separate press and release events.
func (t *Tracker) Toggle() {
	if t.Touching() {
		t.OnRelease()
		return
	}
	t.OnGrant()
}
