package api

import (
	"encoding/json"
	"fmt"

	"github.com/forgetmenot/fmn/common"
	"github.com/forgetmenot/fmn/pkg/fmnlib"
)

func (s *Api) removeHandler(body json.RawMessage) (common.UpdateType, any, error) {
	var m common.RemoveParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_REMOVE, nil, fmt.Errorf("%w: %v", fmnlib.ErrValidation, err)
	}
	if err := s.RemoveTask(m.TaskId); err != nil {
		return common.UPDATE_REMOVE, nil, err
	}
	return common.UPDATE_REMOVE, &common.RemoveResponse{TaskId: m.TaskId}, nil
}
