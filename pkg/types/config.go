package types

import "errors"

// Default configuration values.
const (
	DefaultKeepBackups = 5
	DefaultAutoSave    = true
)

// Config holds the settings a session needs to open the catalogue.
type Config struct {
	// DataDir is the backup root; dated backup folders live directly
	// beneath it.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// LogLevel selects the zap log level (debug, info, warn, error).
	LogLevel string `json:"log_level" yaml:"log_level"`

	// AutoSave writes all backup files after every mutating operation.
	// Turn it off when entering a large batch of comics at once.
	AutoSave bool `json:"autosave" yaml:"autosave"`

	// KeepBackups is how many dated backup folders to retain; older
	// folders are deleted during load-folder selection.
	KeepBackups int `json:"keep_backups" yaml:"keep_backups"`
}

// Config validation errors.
var (
	ErrDataDirEmpty       = errors.New("data directory must not be empty")
	ErrKeepBackupsInvalid = errors.New("keep_backups must be positive")
)

// Validate checks that the Config is well-formed, returning a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if c.KeepBackups < 1 {
		return ErrKeepBackupsInvalid
	}
	return nil
}
