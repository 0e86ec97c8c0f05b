package api

import (
	"fmt"
	"time"

	"github.com/forgetmenot/fmn/common"
	"github.com/forgetmenot/fmn/internal/server"
	"github.com/forgetmenot/fmn/pkg/fmnlib"
	"github.com/forgetmenot/fmn/pkg/logger"
)

// TaskScheduler is the part of the scheduler the handlers drive.
type TaskScheduler interface {
	Add(t *fmnlib.Task) error
	Remove(id string) error
	Tasks() []*fmnlib.Task
	Now() time.Time
}

// Defaults fill in attachments a request leaves empty.
type Defaults struct {
	SoundPath string
	ImagePath string
}

type Api struct {
	log      logger.Logger
	sched    TaskScheduler
	defaults Defaults
}

func NewApi(l logger.Logger, sched TaskScheduler, defaults Defaults) *Api {
	return &Api{
		log:      l,
		sched:    sched,
		defaults: defaults,
	}
}

func (s *Api) RegisterHandlers(server *server.Server) {
	server.RegisterHandler(common.UPDATE_ADD, s.addHandler)
	server.RegisterHandler(common.UPDATE_REMOVE, s.removeHandler)
	server.RegisterHandler(common.UPDATE_LIST, s.listHandler)
}

// AddTask validates p, creates the task relative to the scheduler clock and
// hands it to the scheduler.
func (s *Api) AddTask(p *common.AddParams) (*fmnlib.Task, error) {
	sched, err := p.Schedule.Schedule()
	if err != nil {
		return nil, err
	}
	opts := &fmnlib.TaskOpts{
		SoundPath: orDefault(p.SoundPath, s.defaults.SoundPath),
		ImagePath: orDefault(p.ImagePath, s.defaults.ImagePath),
	}
	task, err := fmnlib.NewTask(p.Message, sched, opts, s.sched.Now())
	if err != nil {
		return nil, err
	}
	if err := s.sched.Add(task); err != nil {
		return nil, err
	}
	s.log.Info("added reminder %s (%s): %s", task.ID, task.Schedule, task.Message)
	return task, nil
}

// RemoveTask deletes a pending task. A missing id yields fmnlib.ErrNotFound
// every time.
func (s *Api) RemoveTask(id string) error {
	if id == "" {
		return fmt.Errorf("%w: task id is required", fmnlib.ErrValidation)
	}
	if err := s.sched.Remove(id); err != nil {
		return err
	}
	s.log.Info("removed reminder %s", id)
	return nil
}

// ListTasks returns every pending task ordered by creation time.
func (s *Api) ListTasks() []*fmnlib.Task {
	return s.sched.Tasks()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
