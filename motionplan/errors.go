package motionplan

import "github.com/pkg/errors"

// NewPathIndexError is returned when a path pose is requested past the end
// of the computed path.
func NewPathIndexError(index, size int) error {
	return errors.Errorf("path pose index %d out of range, path has %d poses", index, size)
}
