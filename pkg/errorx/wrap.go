package errorx

import "fmt"

// Wrap annotates err with the operation that produced it. It returns nil for a nil err.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", op, err)
}
