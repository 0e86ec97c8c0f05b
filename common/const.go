package common

// UpdateType names a daemon method and tags the matching reply.
type UpdateType string

const (
	UPDATE_ADD    UpdateType = "add"
	UPDATE_REMOVE UpdateType = "rm"
	UPDATE_LIST   UpdateType = "show"
)

const (
	// AppName is the application name reported to notification services.
	AppName = "fmn"

	// DefaultDaemonAddr is used when FMN_DAEMON_ADDR is unset.
	DefaultDaemonAddr = "localhost:8082"

	// NotificationSummary is the title of every reminder popup.
	NotificationSummary = "forget-me-not"

	// MaxDatagramSize is the largest UDP payload either side will send or accept.
	MaxDatagramSize = 65507
)
