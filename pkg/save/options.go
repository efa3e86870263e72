package save

import (
	"io"
	"path/filepath"
	"strings"
)

// Format is a locale file encoding.
type Format int

// Format constants.
const (
	FormatUnknown Format = iota
	FormatJSON
	FormatYAML
	FormatTOML
)

// IsValid checks if the format is valid.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTOML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	}
	return "unknown"
}

// FormatFromPath detects the format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatUnknown
	}
}

// Options is the configuration for save.
type Options struct {
	writer io.Writer
	format Format
	indent int
	dryRun bool
}

// Writer returns the writer for the save options.
func (s *Options) Writer() io.Writer {
	return s.writer
}

// Format returns the format for the save options.
func (s *Options) Format() Format {
	return s.format
}

// Indent returns the indentation width.
func (s *Options) Indent() int {
	return s.indent
}

// DryRun reports whether files should be left untouched.
func (s *Options) DryRun() bool {
	return s.dryRun
}

// Defaults returns the default save options.
func Defaults() *Options {
	return &Options{
		writer: nil,
		format: FormatUnknown,
		indent: 2,
	}
}

// Apply applies the given options to the save options.
func (s *Options) Apply(opts ...Option) Options {
	for _, opt := range opts {
		opt(s)
	}
	return *s
}

// Option is a function that configures save options.
type Option func(*Options)

// WithFormat forces an output format instead of detecting it from the path.
func WithFormat(f Format) Option {
	return func(s *Options) {
		s.format = f
	}
}

// WithIndent sets the indentation width for JSON and YAML.
func WithIndent(n int) Option {
	return func(s *Options) {
		if n >= 0 {
			s.indent = n
		}
	}
}

// WithWriter sends the encoded file to w in addition to disk.
func WithWriter(w io.Writer) Option {
	return func(s *Options) {
		s.writer = w
	}
}

// WithDryRun encodes without writing files.
func WithDryRun(dryRun bool) Option {
	return func(s *Options) {
		s.dryRun = dryRun
	}
}
