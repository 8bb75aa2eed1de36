package chart

import (
	"errors"
	"fmt"
)

// ErrInvalidTarget is wrapped by InvalidTargetError.
var ErrInvalidTarget = errors.New("invalid animation target")

// InvalidTargetError is returned by Chart.Animate
// for animation targets other than config, data, and style.
type InvalidTargetError struct {
	Target string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf(
		"could not update %q: pass either a map with %q, %q and/or %q entries or a single config map",
		e.Target, TargetConfig, TargetData, TargetStyle,
	)
}

func (e *InvalidTargetError) Unwrap() error { return ErrInvalidTarget }
