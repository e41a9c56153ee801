package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	StorageDir   string
	ListenAddr   string
	ArtifactName string
	// FixedArtifactName reuses the artifact name for every recording instead
	// of adding a per-session id.
	FixedArtifactName bool
	LaunchGrace       time.Duration

	Recorder      RecorderConfig
	Transcriber   TranscriberConfig
	Clipboard     ClipboardConfig
	Log           LogConfig
	Notifications NotificationsConfig
}

type RecorderConfig struct {
	Binary        string        `toml:"binary"`
	CaptureArgs   []string      `toml:"capture_args"`
	ProbeArgs     []string      `toml:"probe_args"`
	ProbeInterval time.Duration `toml:"probe_interval"`
	StopGrace     time.Duration `toml:"stop_grace"`
}

type TranscriberConfig struct {
	Binary       string   `toml:"binary"`
	Model        string   `toml:"model"`
	Language     string   `toml:"language"`
	OutputFormat string   `toml:"output_format"`
	ExtraArgs    []string `toml:"extra_args"`
}

type ClipboardConfig struct {
	// Command is the utility the transcript is piped into. Empty selects
	// pbcopy on macOS and the system clipboard elsewhere.
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type NotificationsConfig struct {
	Desktop bool `toml:"desktop"`
}

type fileConfig struct {
	StorageDir        string               `toml:"storage_dir"`
	ListenAddr        string               `toml:"listen_addr"`
	ArtifactName      string               `toml:"artifact_name"`
	FixedArtifactName *bool                `toml:"fixed_artifact_name"`
	LaunchGrace       time.Duration        `toml:"launch_grace"`
	Recorder          RecorderConfig       `toml:"recorder"`
	Transcriber       TranscriberConfig    `toml:"transcriber"`
	Clipboard         ClipboardConfig      `toml:"clipboard"`
	Log               LogConfig            `toml:"log"`
	Notifications     *NotificationsConfig `toml:"notifications"`
}

func Default() *Config {
	return &Config{
		StorageDir:   defaultStorageDir(),
		ListenAddr:   "127.0.0.1:7717",
		ArtifactName: "recording",
		LaunchGrace:  300 * time.Millisecond,
		Recorder: RecorderConfig{
			Binary:        "sox",
			CaptureArgs:   []string{"-d"},
			ProbeArgs:     []string{"-d", "-n", "rec"},
			ProbeInterval: 100 * time.Millisecond,
			StopGrace:     3 * time.Second,
		},
		Transcriber: TranscriberConfig{
			Binary:       "whisper",
			Model:        "base",
			Language:     "English",
			OutputFormat: "txt",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Notifications: NotificationsConfig{Desktop: true},
	}
}

func Load() (*Config, error) {
	return LoadFile(configFilePath())
}

// LoadFile is Load with an explicit config file. An empty path skips the file.
func LoadFile(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(configPath, &fc); err != nil {
			return nil, err
		}
		merge(cfg, &fc)
	}

	applyEnvOverrides(cfg)

	// Ensure directories exist
	if err := os.MkdirAll(cfg.StorageDir, 0o755); err != nil {
		return nil, err
	}

	return cfg, nil
}

func merge(cfg *Config, fc *fileConfig) {
	if fc.StorageDir != "" {
		cfg.StorageDir = expandTilde(fc.StorageDir)
	}
	if fc.ListenAddr != "" {
		cfg.ListenAddr = fc.ListenAddr
	}
	if fc.ArtifactName != "" {
		cfg.ArtifactName = fc.ArtifactName
	}
	if fc.FixedArtifactName != nil {
		cfg.FixedArtifactName = *fc.FixedArtifactName
	}
	if fc.LaunchGrace > 0 {
		cfg.LaunchGrace = fc.LaunchGrace
	}

	r := fc.Recorder
	if r.Binary != "" {
		cfg.Recorder.Binary = r.Binary
	}
	if r.CaptureArgs != nil {
		cfg.Recorder.CaptureArgs = r.CaptureArgs
	}
	if r.ProbeArgs != nil {
		cfg.Recorder.ProbeArgs = r.ProbeArgs
	}
	if r.ProbeInterval > 0 {
		cfg.Recorder.ProbeInterval = r.ProbeInterval
	}
	if r.StopGrace > 0 {
		cfg.Recorder.StopGrace = r.StopGrace
	}

	tr := fc.Transcriber
	if tr.Binary != "" {
		cfg.Transcriber.Binary = tr.Binary
	}
	if tr.Model != "" {
		cfg.Transcriber.Model = tr.Model
	}
	if tr.Language != "" {
		cfg.Transcriber.Language = tr.Language
	}
	if tr.OutputFormat != "" {
		cfg.Transcriber.OutputFormat = tr.OutputFormat
	}
	if tr.ExtraArgs != nil {
		cfg.Transcriber.ExtraArgs = tr.ExtraArgs
	}

	if fc.Clipboard.Command != "" {
		cfg.Clipboard = fc.Clipboard
	}

	if fc.Log.Level != "" {
		cfg.Log.Level = fc.Log.Level
	}
	if fc.Log.Format != "" {
		cfg.Log.Format = fc.Log.Format
	}

	if fc.Notifications != nil {
		cfg.Notifications = *fc.Notifications
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WHISPERCLIP_STORAGE_DIR"); v != "" {
		cfg.StorageDir = expandTilde(v)
	}
	if v := os.Getenv("WHISPERCLIP_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("WHISPERCLIP_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("WHISPERCLIP_CLIPBOARD_COMMAND"); v != "" {
		cfg.Clipboard.Command = v
		cfg.Clipboard.Args = nil
	}
	if v := os.Getenv("WHISPERCLIP_TRANSCRIBER_MODEL"); v != "" {
		cfg.Transcriber.Model = v
	}
}

func configFilePath() string {
	var configDir string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		configDir = filepath.Join(xdg, "whisperclip")
	} else if home, err := os.UserHomeDir(); err == nil {
		configDir = filepath.Join(home, ".config", "whisperclip")
	} else {
		return ""
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func defaultStorageDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "whisperclip")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "whisperclip")
	}
	return filepath.Join(".", "whisperclip")
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
