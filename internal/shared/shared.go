// package shared defines shared helpers
package shared

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// NewFileLogger creates a [log.Logger] writing to the file at path, creating parent directories as needed.
//
// Used by the TUI to keep log output off the alternate screen.
func NewFileLogger(path string) (*log.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return NewLogger(f), nil
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// GenerateState generates a random state token for OAuth CSRF protection.
func GenerateState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// MarshalJSON marshals v to JSON, optionally indented.
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// ValidateJSON returns an error if data is not a valid JSON document.
func ValidateJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: not valid JSON: %v", ErrInvalidInput, err)
	}
	return nil
}

// VerifyAndReadFile checks that path exists and is a regular file, then reads it.
func VerifyAndReadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: file path", ErrMissingArgument)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArgument, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidArgument, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return data, nil
}

// FormatWordCount renders a word count for display ("85k words", "1.2M words").
func FormatWordCount(words int) string {
	switch {
	case words >= 1_000_000:
		return fmt.Sprintf("%.1fM words", float64(words)/1_000_000)
	case words >= 1_000:
		return fmt.Sprintf("%dk words", words/1_000)
	default:
		return fmt.Sprintf("%d words", words)
	}
}

// TruncateTitle shortens a chapter or volume title for single-line display.
//
// Counts runes, not bytes, so CJK titles truncate cleanly.
func TruncateTitle(title string, max int) string {
	title = strings.TrimSpace(title)
	runes := []rune(title)
	if max <= 0 || len(runes) <= max {
		return title
	}
	return string(runes[:max-1]) + "…"
}
