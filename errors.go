package loom

import (
	"errors"
	"fmt"
)

// ErrUnknownSymbol reports a keyframe or caller referencing a symbol name
// absent from the library. It surfaces at instantiation time, never during
// playback.
var ErrUnknownSymbol = errors.New("loom: unknown symbol")

// UnknownLabelError reports a seek to a label a movie does not define.
// The movie's playback position is unchanged when this is returned.
type UnknownLabelError struct {
	Movie string
	Label string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("loom: movie %q has no label %q", e.Movie, e.Label)
}

// MalformedLayerError reports invalid keyframe data detected at load time:
// non-increasing indices or overlapping spans. The asset is rejected.
type MalformedLayerError struct {
	Layer  string
	Reason string
}

func (e *MalformedLayerError) Error() string {
	return fmt.Sprintf("loom: layer %q: %s", e.Layer, e.Reason)
}
