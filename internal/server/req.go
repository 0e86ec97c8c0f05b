package server

import (
	"encoding/json"
	"errors"

	"github.com/forgetmenot/fmn/common"
)

// Request is one client datagram. ID is chosen by the client and reused on
// retries so the daemon can answer a repeat from its reply cache.
type Request struct {
	ID      string            `json:"id,omitempty"`
	Method  common.UpdateType `json:"method"`
	Message json.RawMessage   `json:"message,omitempty"`
}

func ParseRequest(b []byte) (*Request, error) {
	var r Request
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	if r.Method == "" {
		return nil, errors.New("missing method")
	}
	return &r, nil
}
