// Package hostsfile manages the block of hosts file entries written by
// fasthosts, with a single-generation backup and atomic replacement.
//
// Concurrent calls to ApplySelection or RestoreBackup against the same
// file are not safe; callers must serialize them.
package hostsfile

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/fasthosts/fasthosts/internal/fsx"
	"github.com/fasthosts/fasthosts/internal/model"
)

const (
	// StartMarker is the comment line opening the managed block.
	StartMarker = "# GitHub加速配置"

	// EndMarker is the comment line closing the managed block.
	EndMarker = "# GitHub加速配置结束"

	// BackupSuffix is appended to the hosts file path to obtain the backup path.
	BackupSuffix = ".backup"
)

// ErrElevatedPrivileges indicates that we lack the permission to modify the hosts file.
var ErrElevatedPrivileges = errors.New("hostsfile: requires elevated privileges")

// ErrNoBackup indicates that there is no backup to restore.
var ErrNoBackup = errors.New("hostsfile: no backup available")

// defaultMode is the mode of a hosts file we create from scratch.
const defaultMode = 0644

// DefaultPath returns the path of the system hosts file.
func DefaultPath() string {
	return defaultPath
}

// Manager reads and modifies a hosts file. The zero value is invalid;
// use [NewManager].
type Manager struct {
	// Logger is the MANDATORY logger.
	Logger model.Logger

	// Path is the MANDATORY hosts file path.
	Path string
}

// NewManager creates a [*Manager] for the given path. An empty path
// selects the system hosts file.
func NewManager(logger model.Logger, path string) *Manager {
	if path == "" {
		path = DefaultPath()
	}
	return &Manager{
		Logger: model.ValidLoggerOrDefault(logger),
		Path:   path,
	}
}

// BackupPath returns the path of the backup file.
func (m *Manager) BackupPath() string {
	return m.Path + BackupSuffix
}

// ReadLines returns the lines of the hosts file including their line
// terminators. On failure it logs the error and returns an empty slice
// and false; callers may treat that as an empty file.
func (m *Manager) ReadLines() ([]string, bool) {
	data, err := fsx.ReadFile(m.Path)
	if err != nil {
		m.Logger.Warnf("hostsfile: cannot read %s: %s", m.Path, err.Error())
		return []string{}, false
	}
	return splitLines(string(data)), true
}

// Backup copies the hosts file to [Manager.BackupPath], replacing any
// previous backup. Failures are logged and reported as false.
func (m *Manager) Backup() bool {
	if err := fsx.CopyFile(m.Path, m.BackupPath()); err != nil {
		m.Logger.Warnf("hostsfile: cannot backup %s: %s", m.Path, m.explain(err))
		return false
	}
	m.Logger.Debugf("hostsfile: backup saved to %s", m.BackupPath())
	return true
}

// ApplySelection backs up the hosts file, removes the previous managed
// block and every non-comment line whose hostname contains one of the
// selected hostnames, appends a new managed block and atomically replaces
// the file. It returns false when the file could not be written, in which
// case the file is left untouched.
func (m *Manager) ApplySelection(sel *model.Selection) bool {
	m.Backup()
	lines, _ := m.ReadLines()
	content := m.applyToLines(lines, sel)
	mode := fsx.FileMode(m.Path, defaultMode)
	if err := fsx.WriteFileAtomic(m.Path, []byte(content), mode); err != nil {
		m.Logger.Warnf("hostsfile: cannot write %s: %s", m.Path, m.explain(err))
		return false
	}
	m.Logger.Infof("hostsfile: wrote %d entries to %s", sel.Len(), m.Path)
	return true
}

// applyToLines returns the content that ApplySelection writes.
func (m *Manager) applyToLines(lines []string, sel *model.Selection) string {
	kept := FilterLines(RemoveManagedBlocks(lines), sel.Hosts())
	var sb strings.Builder
	for _, line := range kept {
		sb.WriteString(line)
	}
	if len(kept) > 0 && !strings.HasSuffix(kept[len(kept)-1], "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(m.RenderSelection(sel))
	return sb.String()
}

// RenderSelection returns the managed block for the selection.
func (m *Manager) RenderSelection(sel *model.Selection) string {
	var sb strings.Builder
	sb.WriteString(StartMarker + "\n")
	for _, entry := range sel.Entries() {
		sb.WriteString(entry.IP + "\t" + entry.Hostname + "\n")
	}
	sb.WriteString(EndMarker + "\n")
	return sb.String()
}

// RestoreBackup replaces the hosts file with a byte-exact copy of the
// backup. It returns false if there is no backup or the copy fails.
func (m *Manager) RestoreBackup() bool {
	if err := fsx.CopyFile(m.BackupPath(), m.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = ErrNoBackup
		}
		m.Logger.Warnf("hostsfile: cannot restore %s: %s", m.Path, m.explain(err))
		return false
	}
	m.Logger.Infof("hostsfile: restored %s from %s", m.Path, m.BackupPath())
	return true
}

// explain maps permission errors to an actionable message.
func (m *Manager) explain(err error) string {
	if errors.Is(err, fs.ErrPermission) || errors.Is(err, ErrElevatedPrivileges) {
		return err.Error() + " (" + ErrElevatedPrivileges.Error() + ")"
	}
	return err.Error()
}

// splitLines splits data after each newline keeping the terminators.
func splitLines(data string) []string {
	lines := strings.SplitAfter(data, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
