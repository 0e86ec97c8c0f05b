// Package common provides shared types and constants used across the fmn
// client-daemon communication layer.
package common

// Environment variable names for configuration.
const (
	// TasksPathEnv is the path of the persisted task store. A ".db" or
	// ".sqlite" suffix selects the SQLite backend.
	TasksPathEnv = "FMN_TASKS_PATH"

	// DaemonAddrEnv is the UDP address the daemon listens on and the client sends to.
	DaemonAddrEnv = "FMN_DAEMON_ADDR"

	// SoundPathEnv is the default sound file attached to new reminders.
	SoundPathEnv = "FMN_SOUND_PATH"

	// ImagePathEnv is the default image attached to new reminders.
	ImagePathEnv = "FMN_IMAGE_PATH"

	// NotifyTimeoutEnv bounds a single notification dispatch (Go duration).
	NotifyTimeoutEnv = "FMN_NOTIFY_TIMEOUT"

	// ConfigPathEnv overrides the location of the YAML config file.
	ConfigPathEnv = "FMN_CONFIG"

	// RPCAddrEnv is the listen address of the optional JSON-RPC bridge.
	RPCAddrEnv = "FMN_RPC_ADDR"

	// RPCSecretEnv is the bearer token required by the JSON-RPC bridge.
	// The bridge stays disabled while it is empty.
	RPCSecretEnv = "FMN_RPC_SECRET"

	// DebugEnv is the environment variable to enable debug logging.
	DebugEnv = "FMN_DEBUG"
)
