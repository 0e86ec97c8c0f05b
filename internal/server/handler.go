package server

import (
	"encoding/json"

	"github.com/forgetmenot/fmn/common"
)

// HandlerFunc defines the signature for request handlers.
// It receives the raw JSON message body and returns the update type for the
// reply, the reply payload and any error encountered.
type HandlerFunc func(
	body json.RawMessage,
) (
	common.UpdateType,
	any,
	error,
)
