package dispatch

import (
	"errors"
	"fmt"
)

// ErrDuplicateRenderer is matched by every DuplicateRendererError.
var ErrDuplicateRenderer = errors.New("duplicate renderer")

// DuplicateRendererError reports two renderers registered for one type.
type DuplicateRendererError struct {
	Type string
}

func (e *DuplicateRendererError) Error() string {
	return fmt.Sprintf("renderer for component type '%s' already registered", e.Type)
}

func (e *DuplicateRendererError) Is(target error) bool {
	return target == ErrDuplicateRenderer
}
