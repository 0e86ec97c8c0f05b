package api

import (
	"encoding/json"

	"github.com/forgetmenot/fmn/common"
)

func (s *Api) listHandler(json.RawMessage) (common.UpdateType, any, error) {
	return common.UPDATE_LIST, &common.ListResponse{Tasks: s.ListTasks()}, nil
}
