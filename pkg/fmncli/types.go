package fmncli

import (
	"encoding/json"

	"github.com/forgetmenot/fmn/common"
)

type Request struct {
	ID      string            `json:"id"`
	Method  common.UpdateType `json:"method"`
	Message any               `json:"message,omitempty"`
}

type Response struct {
	ID     string  `json:"id,omitempty"`
	Ok     bool    `json:"ok"`
	Error  string  `json:"error,omitempty"`
	Update *Update `json:"update,omitempty"`
}

type Update struct {
	Type    common.UpdateType `json:"type"`
	Message json.RawMessage   `json:"message"`
}
