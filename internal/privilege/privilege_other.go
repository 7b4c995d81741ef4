//go:build !linux && !darwin

package privilege

// Drop is unsupported on this platform.
func Drop(userName, groupName string) error {
	return ErrUnsupported
}
