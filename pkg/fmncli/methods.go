package fmncli

import (
	"encoding/json"

	"github.com/forgetmenot/fmn/common"
	"github.com/forgetmenot/fmn/pkg/fmnlib"
)

func invoke[T any](c *Client, method common.UpdateType, message any) (*T, error) {
	resp, err := c.invoke(method, message)
	if err != nil {
		return nil, err
	}
	var d T
	return &d, json.Unmarshal(resp, &d)
}

// AddOpts carries the optional attachments of a new reminder.
type AddOpts struct {
	SoundPath string
	ImagePath string
}

func (c *Client) Add(message string, spec fmnlib.ScheduleSpec, opts *AddOpts) (*common.AddResponse, error) {
	if opts == nil {
		opts = &AddOpts{}
	}
	return invoke[common.AddResponse](c, common.UPDATE_ADD, &common.AddParams{
		Message:   message,
		Schedule:  spec,
		SoundPath: opts.SoundPath,
		ImagePath: opts.ImagePath,
	})
}

func (c *Client) Remove(taskId string) (*common.RemoveResponse, error) {
	return invoke[common.RemoveResponse](c, common.UPDATE_REMOVE, &common.RemoveParams{TaskId: taskId})
}

func (c *Client) List() (*common.ListResponse, error) {
	return invoke[common.ListResponse](c, common.UPDATE_LIST, nil)
}
