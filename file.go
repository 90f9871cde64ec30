package logging

import "gopkg.in/natefinch/lumberjack.v2"

// FileBackend writes rendered lines to a size-rotated log file.
type FileBackend struct {
	name string
	lj   *lumberjack.Logger
}

// FileBackendOptions mirror the rotation knobs of the underlying writer.
// Zero values keep lumberjack's defaults.
type FileBackendOptions struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewFileBackend returns a rotating-file backend writing to filename.
func NewFileBackend(name, filename string, opts FileBackendOptions) *FileBackend {
	return &FileBackend{
		name: name,
		lj: &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		},
	}
}

func (f *FileBackend) Name() string { return f.name }

func (f *FileBackend) Write(p []byte) error {
	_, err := f.lj.Write(p)
	return err
}

// Rotate forces a rotation of the current log file.
func (f *FileBackend) Rotate() error { return f.lj.Rotate() }

// Close closes the current log file.
func (f *FileBackend) Close() error { return f.lj.Close() }
