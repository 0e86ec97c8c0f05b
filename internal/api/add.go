package api

import (
	"encoding/json"
	"fmt"

	"github.com/forgetmenot/fmn/common"
	"github.com/forgetmenot/fmn/pkg/fmnlib"
)

func (s *Api) addHandler(body json.RawMessage) (common.UpdateType, any, error) {
	var m common.AddParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_ADD, nil, fmt.Errorf("%w: %v", fmnlib.ErrValidation, err)
	}
	task, err := s.AddTask(&m)
	if err != nil {
		return common.UPDATE_ADD, nil, err
	}
	return common.UPDATE_ADD, &common.AddResponse{Task: task}, nil
}
