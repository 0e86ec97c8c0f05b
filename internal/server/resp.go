package server

import (
	"encoding/json"

	"github.com/forgetmenot/fmn/common"
)

type Response struct {
	ID     string  `json:"id,omitempty"`
	Ok     bool    `json:"ok"`
	Error  string  `json:"error,omitempty"`
	Update *Update `json:"update,omitempty"`
}

type Update struct {
	Type    common.UpdateType `json:"type"`
	Message any               `json:"message,omitempty"`
}

func MakeResult(id string, utype common.UpdateType, res any) []byte {
	b, _ := json.Marshal(Response{
		ID: id,
		Ok: true,
		Update: &Update{
			Type:    utype,
			Message: res,
		},
	})
	return b
}

func InitError(id string, err error) []byte {
	if err == nil {
		return CreateError(id, "Unknown")
	}
	return CreateError(id, err.Error())
}

func CreateError(id, err string) []byte {
	b, _ := json.Marshal(Response{
		ID:    id,
		Ok:    false,
		Error: err,
	})
	return b
}
