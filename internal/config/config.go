// Package config resolves daemon and client settings. Sources, lowest
// precedence first: built-in defaults, a YAML file, a .env file in the
// working directory, the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/forgetmenot/fmn/common"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	appDir        = "fmn"
	configFile    = "config.yaml"
	storeFile     = "tasks.fmn"
	defaultRPC    = "localhost:8083"
	defaultNotify = 30 * time.Second
)

type Config struct {
	// Addr is the UDP address of the daemon.
	Addr      string `yaml:"addr"`
	StorePath string `yaml:"store_path"`
	SoundPath string `yaml:"sound_path"`
	ImagePath string `yaml:"image_path"`

	NotifyTimeout time.Duration `yaml:"notify_timeout"`

	// ClientTimeout is how long the client waits for each reply.
	ClientTimeout time.Duration `yaml:"client_timeout"`
	ClientRetries int           `yaml:"client_retries"`

	RPCAddr   string `yaml:"rpc_addr"`
	RPCSecret string `yaml:"rpc_secret"`

	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Addr:          common.DefaultDaemonAddr,
		StorePath:     filepath.Join(baseDir(), storeFile),
		NotifyTimeout: defaultNotify,
		ClientTimeout: 2 * time.Second,
		ClientRetries: 2,
		RPCAddr:       defaultRPC,
	}
}

// RPCEnabled reports whether the JSON-RPC bridge should be served.
func (c *Config) RPCEnabled() bool {
	return c.RPCSecret != ""
}

// Load resolves the configuration. A missing YAML or .env file is not an
// error; a YAML file named by FMN_CONFIG that cannot be read is.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	path, explicit := os.Getenv(common.ConfigPathEnv), true
	if path == "" {
		path, explicit = filepath.Join(baseDir(), configFile), false
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, explicit bool) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.StorePath, common.TasksPathEnv)
	setString(&c.Addr, common.DaemonAddrEnv)
	setString(&c.SoundPath, common.SoundPathEnv)
	setString(&c.ImagePath, common.ImagePathEnv)
	setString(&c.RPCAddr, common.RPCAddrEnv)
	setString(&c.RPCSecret, common.RPCSecretEnv)

	if v := os.Getenv(common.NotifyTimeoutEnv); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", common.NotifyTimeoutEnv, err)
		}
		c.NotifyTimeout = d
	}
	if v := os.Getenv(common.DebugEnv); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", common.DebugEnv, err)
		}
		c.Debug = b
	}
	return nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return errors.New("daemon address is empty")
	case c.StorePath == "":
		return errors.New("task store path is empty")
	case c.NotifyTimeout <= 0:
		return fmt.Errorf("notify timeout must be positive, got %s", c.NotifyTimeout)
	case c.ClientTimeout <= 0:
		return fmt.Errorf("client timeout must be positive, got %s", c.ClientTimeout)
	case c.ClientRetries < 0:
		return fmt.Errorf("client retries must not be negative, got %d", c.ClientRetries)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func baseDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, appDir)
}
