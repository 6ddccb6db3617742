package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"jobportal/internal/logging/types"
)

// FileAdapter appends entries to a file, rotating it once MaxSize bytes are exceeded
type FileAdapter struct {
	name        string
	config      FileConfig
	file        *os.File
	currentSize int64
	mu          sync.Mutex
}

// FileConfig represents configuration for the file adapter
type FileConfig struct {
	FilePath   string `yaml:"file_path"`
	Format     string `yaml:"format"`      // json or text
	MaxSize    int64  `yaml:"max_size"`    // bytes, 0 = no rotation
	CreateDirs bool   `yaml:"create_dirs"` // create parent directories
}

// NewFileAdapter opens (or creates) the log file
func NewFileAdapter(name string, config FileConfig) (*FileAdapter, error) {
	if config.Format == "" {
		config.Format = "json"
	}

	if config.CreateDirs {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	adapter := &FileAdapter{name: name, config: config}
	if err := adapter.open(); err != nil {
		return nil, err
	}
	return adapter, nil
}

func (a *FileAdapter) open() error {
	f, err := os.OpenFile(a.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	a.file = f
	a.currentSize = info.Size()
	return nil
}

// Write appends one formatted line
func (a *FileAdapter) Write(entry *types.LogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var line string
	if strings.ToLower(a.config.Format) == "text" {
		line = formatText(entry, false)
	} else {
		var err error
		if line, err = formatJSON(entry); err != nil {
			return fmt.Errorf("failed to format log entry: %w", err)
		}
	}
	line += "\n"

	if a.config.MaxSize > 0 && a.currentSize+int64(len(line)) > a.config.MaxSize {
		if err := a.rotate(); err != nil {
			return err
		}
	}

	n, err := a.file.WriteString(line)
	a.currentSize += int64(n)
	return err
}

// rotate renames the current file with a timestamp suffix and starts a new one
func (a *FileAdapter) rotate() error {
	if err := a.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}

	backup := fmt.Sprintf("%s.%s", a.config.FilePath, time.Now().Format("20060102T150405.000000000"))
	if err := os.Rename(a.config.FilePath, backup); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	return a.open()
}

// Close closes the file
func (a *FileAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	return err
}

// Name returns the name of the adapter
func (a *FileAdapter) Name() string {
	return a.name
}
