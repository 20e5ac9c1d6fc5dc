package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Errors
var (
	ErrFileNotFound    = errors.New("file not found")
	ErrUnsupportedFile = errors.New("unsupported video file")
)

// VideoExtensions are the file types the player accepts.
var VideoExtensions = []string{".mp4", ".avi", ".mkv", ".mov"}

// IsVideoFile reports whether path has an accepted video extension.
func IsVideoFile(path string) bool {
	return slices.Contains(VideoExtensions, strings.ToLower(filepath.Ext(path)))
}

// AcceptFile checks that path is an existing video file.
func AcceptFile(path string) error {
	if !IsVideoFile(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Base(path))
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return nil
}
