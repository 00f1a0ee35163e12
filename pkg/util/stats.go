package util

import (
	"fmt"
	"os"
	"sync"

	"github.com/boyter/gocodewalker"
)

// DirStats tracks the size of an unpacked extension directory.
type DirStats struct {
	mu    sync.Mutex
	Files int
	Bytes int64
}

func (s *DirStats) add(bytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Files++
	s.Bytes += bytes
}

// StatDirectory counts the files below dir and their total size.
// Hidden files are included and ignore files are not honored, since an
// extension ships whatever is in its archive.
func StatDirectory(dir string) (*DirStats, error) {
	stats := &DirStats{}

	fileQueue := make(chan *gocodewalker.File, 256)
	walker := gocodewalker.NewFileWalker(dir, fileQueue)
	walker.IncludeHidden = true
	walker.IgnoreGitIgnore = true
	walker.IgnoreIgnoreFile = true

	errChan := make(chan error, 1)
	go func() {
		errChan <- walker.Start()
	}()

	for f := range fileQueue {
		info, err := os.Lstat(f.Location)
		if err != nil {
			// Drain so the walker goroutine can finish.
			for range fileQueue {
			}
			<-errChan
			return stats, err
		}
		stats.add(info.Size())
	}

	if err := <-errChan; err != nil {
		return stats, fmt.Errorf("directory walk failed: %w", err)
	}
	return stats, nil
}
