package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for scene bootstrap and frame loop operations.
var (
	// ErrSessionUnavailable indicates the platform lacks AR support or camera
	// permission was denied.
	ErrSessionUnavailable = errors.New("dynamo: AR session unavailable")

	// ErrAssetLoad indicates the reference model could not be fetched or parsed.
	ErrAssetLoad = errors.New("dynamo: asset load failed")

	// ErrDegenerateMesh indicates a mesh whose bounding box has no extent.
	ErrDegenerateMesh = errors.New("dynamo: degenerate mesh (zero extent)")

	// ErrInvalidState indicates a body position or velocity with NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrTooManyFailures indicates the frame loop gave up after consecutive failed frames.
	ErrTooManyFailures = errors.New("dynamo: too many consecutive frame failures")
)

// AssetLoadError wraps a model fetch or parse failure with its source.
type AssetLoadError struct {
	Source  string
	Wrapped error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Wrapped)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Wrapped
}

// Is reports every AssetLoadError as an ErrAssetLoad.
func (e *AssetLoadError) Is(target error) bool {
	return target == ErrAssetLoad
}

// FrameError wraps an error with frame loop context.
type FrameError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
