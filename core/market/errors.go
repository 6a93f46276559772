package market

import (
	"errors"
	"fmt"
)

// ErrInvalidStep is the common base of all step contract violations, so
// callers can match either failure with errors.Is(err, ErrInvalidStep).
var ErrInvalidStep = errors.New("invalid step")

// ErrInvalidAction reports an action outside [-capacity, capacity].
var ErrInvalidAction = fmt.Errorf("%w: action out of bounds", ErrInvalidStep)

// ErrEpisodeOver reports a step call after the episode clock has passed the
// horizon. Reset the environment to start a new episode.
var ErrEpisodeOver = fmt.Errorf("%w: episode is over, reset the environment", ErrInvalidStep)
