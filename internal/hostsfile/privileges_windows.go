//go:build windows

package hostsfile

import "golang.org/x/sys/windows"

// CheckWritable returns [ErrElevatedPrivileges] unless the current process
// runs elevated, which is required to modify the system hosts file.
func CheckWritable(pathname string) error {
	if !windows.GetCurrentProcessToken().IsElevated() {
		return ErrElevatedPrivileges
	}
	return nil
}
