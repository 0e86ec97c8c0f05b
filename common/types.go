package common

import "github.com/forgetmenot/fmn/pkg/fmnlib"

type AddParams struct {
	Message   string              `json:"message"`
	Schedule  fmnlib.ScheduleSpec `json:"schedule"`
	SoundPath string              `json:"sound_path,omitempty"`
	ImagePath string              `json:"image_path,omitempty"`
}

type AddResponse struct {
	Task *fmnlib.Task `json:"task"`
}

type RemoveParams struct {
	TaskId string `json:"task_id"`
}

type RemoveResponse struct {
	TaskId string `json:"task_id"`
}

type ListResponse struct {
	Tasks []*fmnlib.Task `json:"tasks"`
}
