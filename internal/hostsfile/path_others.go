//go:build !windows

package hostsfile

// defaultPath is the location of the hosts file on Unix systems.
const defaultPath = "/etc/hosts"
