//go:build unix

package hostsfile

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// CheckWritable returns [ErrElevatedPrivileges] unless we can replace the
// file at pathname, which requires write access to its directory.
func CheckWritable(pathname string) error {
	for _, target := range []string{pathname, filepath.Dir(pathname)} {
		if err := unix.Access(target, unix.W_OK); err != nil {
			return fmt.Errorf("%w: %s: %s", ErrElevatedPrivileges, target, err.Error())
		}
	}
	return nil
}
