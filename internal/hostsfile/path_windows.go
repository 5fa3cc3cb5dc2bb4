//go:build windows

package hostsfile

// defaultPath is the location of the hosts file on Windows.
const defaultPath = `C:\Windows\System32\drivers\etc\hosts`
