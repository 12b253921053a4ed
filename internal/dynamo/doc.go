// Package dynamo provides the shared primitives of the duck-drop scene.
//
// It holds the domain errors reported by bootstrap and the frame loop,
// finite-value checks for simulated vectors, and a small fan-out helper
// used by the physics world:
//
//   - [ErrSessionUnavailable]: AR session could not be started
//   - [ErrAssetLoad]: the reference model could not be fetched or parsed
//   - [FrameError]: a frame loop iteration that failed
//   - [ParallelFor]: chunked parallel loop over [0, n)
//
// # Thread Safety
//
// Everything in this package is stateless and safe for concurrent use.
package dynamo
