package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment keys read by Load.
const (
	KeyGroqAPIKey   = "GROQ_API_KEY"
	KeyOpenAIAPIKey = "OPENAI_API_KEY"
	KeyDefaultModel = "DEFAULT_MODEL"
	KeyMaxRetries   = "MAX_RETRIES"

	DefaultEnvFile    = ".env"
	DefaultMaxRetries = 3
	DefaultMaxTurns   = 10
)

var (
	// ErrMissingSetting is wrapped by MissingSettingsError.
	ErrMissingSetting = errors.New("missing required setting")
	// ErrInvalidSetting reports a value that could not be parsed.
	ErrInvalidSetting = errors.New("invalid setting")
)

// requiredKeys lists the keys that must be non-empty, in declaration order.
var requiredKeys = []string{KeyGroqAPIKey, KeyOpenAIAPIKey, KeyDefaultModel}

// Settings holds the runtime configuration shared by every component.
// It is built once at startup and passed by value; nothing writes it back
// into the process environment.
type Settings struct {
	GroqAPIKey   string
	OpenAIAPIKey string
	DefaultModel string
	MaxRetries   int

	Verbose  bool
	MaxTurns int
}

// MissingSettingsError lists every required key that was absent or empty.
type MissingSettingsError struct {
	Keys []string
}

func (e *MissingSettingsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingSetting, strings.Join(e.Keys, ", "))
}

func (e *MissingSettingsError) Unwrap() error { return ErrMissingSetting }

// LoadOptions controls where Load looks for values.
type LoadOptions struct {
	// EnvFile is the dotenv file consulted for keys absent from the
	// environment. Empty means DefaultEnvFile. A missing file is ignored.
	EnvFile string
	// LookupEnv replaces os.LookupEnv, mainly for tests.
	LookupEnv func(string) (string, bool)
}

// Load collects settings from the environment and the dotenv file and
// validates them. Environment values take precedence over the file.
func Load(opts LoadOptions) (Settings, error) {
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	envFile := strings.TrimSpace(opts.EnvFile)
	if envFile == "" {
		envFile = DefaultEnvFile
	}

	fileValues, err := readEnvFile(envFile)
	if err != nil {
		return Settings{}, err
	}

	get := func(keys ...string) string {
		for _, key := range keys {
			if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		for _, key := range keys {
			if v, ok := fileValues[key]; ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}

	values := map[string]string{}
	var missing []string
	for _, key := range requiredKeys {
		v := get(key)
		if v == "" {
			missing = append(missing, key)
			continue
		}
		values[key] = v
	}
	if len(missing) > 0 {
		return Settings{}, &MissingSettingsError{Keys: missing}
	}

	maxRetries := DefaultMaxRetries
	if raw := get(KeyMaxRetries, strings.ToLower(KeyMaxRetries)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Settings{}, fmt.Errorf("%w: %s=%q must be a non-negative integer", ErrInvalidSetting, KeyMaxRetries, raw)
		}
		maxRetries = n
	}

	return Normalize(Settings{
		GroqAPIKey:   values[KeyGroqAPIKey],
		OpenAIAPIKey: values[KeyOpenAIAPIKey],
		DefaultModel: values[KeyDefaultModel],
		MaxRetries:   maxRetries,
		MaxTurns:     DefaultMaxTurns,
	}), nil
}

func readEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

// Normalize sanitizes configuration values and applies defaults.
func Normalize(s Settings) Settings {
	s.GroqAPIKey = strings.TrimSpace(s.GroqAPIKey)
	s.OpenAIAPIKey = strings.TrimSpace(s.OpenAIAPIKey)
	s.DefaultModel = strings.TrimSpace(s.DefaultModel)
	if s.MaxRetries < 0 {
		s.MaxRetries = 0
	}
	if s.MaxTurns <= 0 {
		s.MaxTurns = 1
	}
	return s
}
