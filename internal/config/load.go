package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/muurk/staticssdp/internal/ssdp"
	"gopkg.in/yaml.v3"
)

const (
	appName    = "staticssdp"
	configFile = "config.yaml"
)

// ValidationError lists every problem found in a configuration file.
type ValidationError struct {
	Path     string
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	where := e.Path
	if where == "" {
		where = "configuration"
	}
	return fmt.Sprintf("%s: %d problem(s): %s", where, len(e.Problems), strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() []error {
	return e.Problems
}

// GetConfigDir returns the OS-appropriate configuration directory:
//   - Linux: $XDG_CONFIG_HOME/staticssdp or $HOME/.config/staticssdp
//   - macOS: $HOME/.config/staticssdp
//   - Windows: %LOCALAPPDATA%\staticssdp
func GetConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData != "" {
			return filepath.Join(localAppData, appName), nil
		}
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
		}
		return filepath.Join(userProfile, "AppData", "Local", appName), nil

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil

	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil
	}
}

// GetConfigPath returns the full path to the default configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load reads and validates the file at path. An empty path means
// GetConfigPath().
func Load(path string) (*File, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Path = path
			return nil, verr
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a configuration document. Missing network
// settings take their defaults.
func Parse(data []byte) (*File, error) {
	f := NewFile()
	f.Version = 0
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if f.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", f.Version, CurrentVersion)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks the network settings and renders every template once.
// It returns a *ValidationError listing all problems.
func (f *File) Validate() error {
	var problems []error
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	n := f.Network
	if ip := net.ParseIP(n.Group); ip == nil || ip.To4() == nil || !ip.IsMulticast() {
		add("network.group %q is not an IPv4 multicast address", n.Group)
	}
	if n.Port <= 0 || n.Port > 65535 {
		add("network.port %d out of range", n.Port)
	}
	if n.BufferSize < 512 {
		add("network.buffer_size %d is below 512", n.BufferSize)
	}
	if n.MulticastTTL < 1 || n.MulticastTTL > 255 {
		add("network.multicast_ttl %d out of range", n.MulticastTTL)
	}
	if n.AnnouncePeriod <= 0 {
		add("network.announce_period must be positive")
	}
	if n.SettleDelay < 0 {
		add("network.settle_delay must not be negative")
	}
	if n.ReceiveTimeout <= 0 {
		add("network.receive_timeout must be positive")
	}
	if n.GoodbyeNTS != ssdp.NTSGoodbye && n.GoodbyeNTS != ssdp.NTSByeBye {
		add("network.goodbye_nts %q must be %s or %s", n.GoodbyeNTS, ssdp.NTSGoodbye, ssdp.NTSByeBye)
	}
	if n.Spoof.TTL < 1 || n.Spoof.TTL > 255 {
		add("network.spoof.ttl %d out of range", n.Spoof.TTL)
	}

	if len(f.Descriptors) == 0 {
		add("no descriptors configured")
	}
	seen := make(map[string]bool)
	for i, d := range f.Descriptors {
		if d.Name == "" {
			add("descriptor %d has no name", i)
		} else if seen[d.Name] {
			add("duplicate descriptor name %q", d.Name)
		}
		seen[d.Name] = true

		if d.MDNS != nil && (d.MDNS.Instance == "" || d.MDNS.Service == "" || d.MDNS.Port <= 0) {
			add("descriptor %q: mdns needs instance, service and port", d.Name)
		}
		if err := d.ServiceDescriptor().Validate(); err != nil {
			problems = append(problems, err)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
