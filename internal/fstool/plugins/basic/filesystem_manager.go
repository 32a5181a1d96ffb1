package basic

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Archiver compresses a single file into an archive of its format.
// Implementations are contributed through the archivers extension point.
type Archiver interface {
	// FileType is the archive format name users select on the command
	// line, e.g. "zip" or "tar.gz".
	FileType() string

	// Compress packs the file at path into an archive placed next to it.
	Compress(path string) error
}

// FileSystemManager is the service behind the basic filesystem commands.
// It is published under the FilesystemService id so other plugins can reuse
// it without importing this package.
type FileSystemManager struct {
	archivers map[string]Archiver
}

// NewFileSystemManager creates a manager dispatching compression to the
// given archivers, keyed by file type.
func NewFileSystemManager(archivers []Archiver) *FileSystemManager {
	byType := make(map[string]Archiver, len(archivers))
	for _, a := range archivers {
		byType[a.FileType()] = a
	}
	return &FileSystemManager{archivers: byType}
}

// FileTypes returns the supported archive formats, sorted.
func (m *FileSystemManager) FileTypes() []string {
	types := make([]string, 0, len(m.archivers))
	for t := range m.archivers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Touch creates the file when missing and refreshes its timestamps
// otherwise.
func (m *FileSystemManager) Touch(path string) error {
	path = expandUser(path)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	now := time.Now()
	return os.Chtimes(path, now, now)
}

// Remove deletes a file.
func (m *FileSystemManager) Remove(path string) error {
	return os.Remove(expandUser(path))
}

// Mkdir creates a directory.
func (m *FileSystemManager) Mkdir(path string) error {
	return os.Mkdir(expandUser(path), 0755)
}

// Rmdir removes an empty directory.
func (m *FileSystemManager) Rmdir(path string) error {
	return os.Remove(expandUser(path))
}

// Compress packs the file using the archiver registered for fileType.
func (m *FileSystemManager) Compress(path, fileType string) error {
	archiver, ok := m.archivers[fileType]
	if !ok {
		return fmt.Errorf("unsupported archive type %q, available: %s",
			fileType, strings.Join(m.FileTypes(), ", "))
	}
	return archiver.Compress(expandUser(path))
}

// expandUser resolves a leading ~ to the user's home directory.
func expandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}
