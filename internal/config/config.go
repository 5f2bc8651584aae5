// Package config loads the optional angkat.toml-style configuration kept in
// the data directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/faizmokh/angkat/internal/schedule"
	"github.com/faizmokh/angkat/internal/tracker"
)

// Config is the on-disk configuration. Every field is optional; Default fills
// anything the file leaves out.
type Config struct {
	LogLevel   string        `toml:"log_level" validate:"oneof=trace debug info warn error fatal"`
	LogFile    string        `toml:"log_file"` // relative to the data directory, "" logs to stderr
	LogJSON    bool          `toml:"log_json"`
	CSVRaw     bool          `toml:"csv_raw"`     // export without RFC 4180 quoting
	LegacyReps bool          `toml:"legacy_reps"` // average reps the way older charts did
	ListenAddr string        `toml:"listen_addr" validate:"required,hostname_port"`
	Schedule   []ScheduleDay `toml:"schedule" validate:"omitempty,len=7,unique=Day,dive"`
}

// ScheduleDay overrides one day of the built-in training week.
type ScheduleDay struct {
	Day       string   `toml:"day" validate:"required"`
	Exercises []string `toml:"exercises" validate:"required,min=1,dive,required"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel:   "info",
		LogFile:    "angkat.log",
		ListenAddr: "127.0.0.1:8765",
	}
}

// Load reads the TOML file at path on top of Default. A missing file is not
// an error. Unknown keys are rejected so typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return Config{}, fmt.Errorf("config error: unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks value ranges and, when present, the schedule override.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}

	if len(c.Schedule) > 0 {
		if _, err := c.BuildSchedule(); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("'%s' must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "len":
		return fmt.Sprintf("'%s' must have exactly %s entries", field, fe.Param())
	case "unique":
		return fmt.Sprintf("'%s' lists a day more than once", field)
	case "hostname_port":
		return fmt.Sprintf("'%s' must be host:port, got %q", field, fe.Value())
	case "required", "min":
		return fmt.Sprintf("'%s' must not be empty", field)
	default:
		return fmt.Sprintf("'%s' failed %s validation", field, fe.Tag())
	}
}

// BuildSchedule returns the configured week, or the built-in one when the
// file does not override it.
func (c Config) BuildSchedule() (schedule.Schedule, error) {
	if len(c.Schedule) == 0 {
		return schedule.Default(), nil
	}
	entries := make([]schedule.Entry, len(c.Schedule))
	for i, day := range c.Schedule {
		entries[i] = schedule.Entry{Day: day.Day, Exercises: day.Exercises}
	}
	return schedule.New(entries)
}

// TrackerOptions maps output settings onto the tracker.
func (c Config) TrackerOptions() tracker.Options {
	return tracker.Options{
		LegacyReps: c.LegacyReps,
		RawCSV:     c.CSVRaw,
	}
}
