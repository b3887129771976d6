// Package manager contains configuration, persistence helpers and the Bubble Tea UI for gwkit.
package manager

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the YAML configuration for gwkit.
//
// Example YAML:
//
// catalog: ~/.config/gwkit/server_list.json
// users: [irteam, irteamsu]
// login_command: [rlogin, -l, "{user}", "{host}"]
// auth:
//   command: [kinit]
//   password_file: ~/.kinit_passwd
// page_size: 20
// transcripts: false
// log_file: ~/.config/gwkit/gwkit.log
// log_level: info
type Config struct {
	// Catalog is the host list file. ".yaml"/".yml" files are YAML, anything else JSON.
	Catalog string `yaml:"catalog,omitempty"`

	// Users are the login users cycled with "/" in the TUI.
	Users []string `yaml:"users,omitempty"`

	// LoginCommand is the argv used to reach a host. "{user}" and "{host}" are substituted.
	LoginCommand []string `yaml:"login_command,omitempty"`

	Auth AuthConfig `yaml:"auth,omitempty"`

	// PageSize is the number of rows PgUp/PgDn move the selection.
	PageSize int `yaml:"page_size,omitempty"`

	// Transcripts, when true, records remote sessions under the logs directory.
	Transcripts bool `yaml:"transcripts,omitempty"`

	LogFile  string `yaml:"log_file,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`

	Theme ThemeConfig `yaml:"theme,omitempty"`
}

// AuthConfig describes the credential bootstrap run before the UI starts.
type AuthConfig struct {
	// Command is run once at startup; an empty command disables the bootstrap.
	Command []string `yaml:"command,omitempty"`

	// PasswordFile, when it exists, is piped into Command's stdin.
	PasswordFile string `yaml:"password_file,omitempty"`
}

// ErrConfigNotFound is returned when no configuration file can be located.
var ErrConfigNotFound = errors.New("config not found")

const (
	defaultConfigDirName = "gwkit"
	defaultConfigFile    = "config.yaml"
	defaultCatalogFile   = "server_list.json"
	defaultLogFile       = "gwkit.log"
	defaultPageSize      = 20
)

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	dir, _ := DefaultConfigDir()
	if strings.TrimSpace(c.Catalog) == "" && dir != "" {
		c.Catalog = filepath.Join(dir, defaultCatalogFile)
	}
	if len(c.Users) == 0 {
		c.Users = []string{"irteam", "irteamsu"}
	}
	if len(c.LoginCommand) == 0 {
		c.LoginCommand = []string{"rlogin", "-l", "{user}", "{host}"}
	}
	if c.Auth.Command == nil {
		c.Auth.Command = []string{"kinit"}
	}
	if strings.TrimSpace(c.Auth.PasswordFile) == "" {
		c.Auth.PasswordFile = "~/.kinit_passwd"
	}
	if c.PageSize == 0 {
		c.PageSize = defaultPageSize
	}
	if strings.TrimSpace(c.LogFile) == "" && dir != "" {
		c.LogFile = filepath.Join(dir, defaultLogFile)
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = "info"
	}
	c.Catalog = expandPath(c.Catalog)
	c.LogFile = expandPath(c.LogFile)
	c.Auth.PasswordFile = expandPath(c.Auth.PasswordFile)
}

// LoadConfig discovers and loads the YAML configuration.
// If explicitPath is empty, it searches common locations in order:
// 1. $GWKIT_CONFIG
// 2. $XDG_CONFIG_HOME/gwkit/config.yaml
// 3. ~/.config/gwkit/config.yaml
//
// When no file exists the defaults are returned with an empty path. An explicit
// path that cannot be read is an error.
func LoadConfig(explicitPath string) (*Config, string, error) {
	if p := expandPath(explicitPath); p != "" {
		cfg, err := loadConfigFile(p)
		return cfg, p, err
	}
	for _, p := range ConfigPathCandidates() {
		p = expandPath(p)
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		cfg, err := loadConfigFile(p)
		return cfg, p, err
	}
	return DefaultConfig(), "", nil
}

func loadConfigFile(p string) (*Config, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", p, ErrConfigNotFound)
		}
		return nil, fmt.Errorf("read config %s: %w", p, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml %s: %w", p, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", p, err)
	}
	return &cfg, nil
}

// ConfigPathCandidates returns possible configuration file paths, in priority order.
func ConfigPathCandidates() []string {
	var out []string
	if env := os.Getenv("GWKIT_CONFIG"); env != "" {
		out = append(out, env)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		out = append(out, filepath.Join(xdg, defaultConfigDirName, defaultConfigFile))
	}
	if home, _ := os.UserHomeDir(); home != "" {
		out = append(out, filepath.Join(home, ".config", defaultConfigDirName, defaultConfigFile))
	}
	return out
}

// DefaultConfigDir returns the directory path for this application's files.
// Precedence:
//  1. $XDG_CONFIG_HOME/gwkit
//  2. ~/.config/gwkit
func DefaultConfigDir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, defaultConfigDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", defaultConfigDirName), nil
}

// Validate performs basic sanity checks on the configuration.
//
// - users must be non-empty and unique
// - login_command must reference {host}
// - page_size must be >= 1
// - log_level must be one of debug|info|warn|error
func (c *Config) Validate() error {
	if len(c.Users) == 0 {
		return errors.New("users: at least one user is required")
	}
	seen := map[string]struct{}{}
	for i, u := range c.Users {
		if strings.TrimSpace(u) == "" {
			return fmt.Errorf("users[%d]: empty user name", i)
		}
		if _, dup := seen[u]; dup {
			return fmt.Errorf("users[%d]: duplicate user %q", i, u)
		}
		seen[u] = struct{}{}
	}

	hasHost := false
	for _, a := range c.LoginCommand {
		if strings.Contains(a, "{host}") {
			hasHost = true
		}
	}
	if len(c.LoginCommand) == 0 || !hasHost {
		return errors.New("login_command: must contain a {host} argument")
	}

	if c.PageSize < 1 {
		return fmt.Errorf("page_size: must be >= 1, got %d", c.PageSize)
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// LoginArgv builds the argv that logs user into host.
func (c *Config) LoginArgv(user, host string) []string {
	r := strings.NewReplacer("{user}", user, "{host}", host)
	out := make([]string, 0, len(c.LoginCommand))
	for _, a := range c.LoginCommand {
		out = append(out, r.Replace(a))
	}
	return out
}

// UserIndex returns the position of name in Users, or 0 when it is not listed.
func (c *Config) UserIndex(name string) int {
	for i, u := range c.Users {
		if u == name {
			return i
		}
	}
	return 0
}

// ParseLogLevel maps a config/flag level name to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level %q (expected: debug|info|warn|error)", s)
	}
}

// currentUsername returns the current OS user name, or the USER env if lookup fails.
func currentUsername() string {
	if u, err := user.Current(); err == nil && u != nil && u.Username != "" {
		return filepath.Base(u.Username)
	}
	return os.Getenv("USER")
}

// expandPath expands leading "~" and environment variables in a path.
// If the input is empty, returns "".
func expandPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = os.ExpandEnv(p)
	if strings.HasPrefix(p, "~") {
		home, _ := os.UserHomeDir()
		if home != "" {
			if p == "~" {
				p = home
			} else if strings.HasPrefix(p, "~/") {
				p = filepath.Join(home, p[2:])
			}
		}
	}
	return p
}
