package aggregator

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-cukereport/metrics"
	"github.com/ethereum-optimism/infra/op-cukereport/types"
)

const (
	// ScreenshotDirName is the folder, next to the report, that holds binary embeddings
	ScreenshotDirName = "screenshot"
	screenshotExt     = ".png"
	maxNameSuffix     = 10000
)

// AttachmentStore persists binary embeddings on the side of the traversal.
// Save must not block on the write; Wait drains every pending write and returns
// the failures in completion order.
type AttachmentStore interface {
	Save(baseName string, data []byte) (ref string)
	Wait() []error
}

// ScreenshotDir returns the directory screenshots are written to for a report
// written at output: a screenshot folder next to it, or ./screenshot when output
// has no directory component.
func ScreenshotDir(output string) string {
	dir := filepath.Dir(output)
	if dir == "." || dir == "" {
		return ScreenshotDirName
	}
	return filepath.Join(dir, ScreenshotDirName)
}

var _ AttachmentStore = (*FileAttachmentStore)(nil)

// FileAttachmentStore writes screenshots to a directory with fire-and-forget writes
type FileAttachmentStore struct {
	dir    string
	log    log.Logger
	suffix func() int

	wg   sync.WaitGroup
	mu   sync.Mutex
	errs []error
}

// NewFileAttachmentStore creates a store rooted at dir. The directory is created on
// the first Save.
func NewFileAttachmentStore(dir string, logger log.Logger) *FileAttachmentStore {
	if logger == nil {
		logger = log.New()
	}
	return &FileAttachmentStore{
		dir:    dir,
		log:    logger.New("component", "attachments"),
		suffix: func() int { return rand.Intn(maxNameSuffix + 1) },
	}
}

// WithNameSuffix overrides the random file name suffix generator
func (s *FileAttachmentStore) WithNameSuffix(fn func() int) *FileAttachmentStore {
	s.suffix = fn
	return s
}

// Save schedules data to be written and returns the report-relative reference
// immediately. The reference is returned even if the write later fails.
func (s *FileAttachmentStore) Save(baseName string, data []byte) string {
	name := fmt.Sprintf("%s%d%s", baseName, s.suffix(), screenshotExt)
	path := filepath.Join(s.dir, name)
	ref := ScreenshotDirName + "/" + name

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		s.fail(path, err)
		return ref
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := os.WriteFile(path, data, 0644); err != nil {
			s.fail(path, err)
			return
		}
		metrics.RecordAttachment("binary", true)
	}()
	return ref
}

// Wait blocks until all scheduled writes finished and returns their failures
func (s *FileAttachmentStore) Wait() []error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	errs := s.errs
	s.errs = nil
	return errs
}

func (s *FileAttachmentStore) fail(path string, err error) {
	attErr := &types.AttachmentError{Path: path, Err: err}
	s.log.Error("Error saving screenshot", "path", path, "error", err)
	metrics.RecordAttachment("binary", false)
	s.mu.Lock()
	s.errs = append(s.errs, attErr)
	s.mu.Unlock()
}

// screenshotBaseName derives a base name that is safe both on disk and unescaped
// in the report's href/src attributes
func screenshotBaseName(step types.Step) string {
	name := step.Name
	if name == "" {
		name = strings.TrimSpace(step.Keyword)
	} else {
		name = strings.Join(strings.Split(name, " "), "_")
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '#', '%', 0:
			return '_'
		}
		return r
	}, name)
}
