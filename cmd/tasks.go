package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/task-cli/internal/service"
	"github.com/nibzard/task-cli/internal/store"
	"github.com/nibzard/task-cli/internal/task"
)

const (
	msgNotFound     = "Task not found."
	msgNotDeleted   = "Task not found or could not be deleted."
	msgNotUpdated   = "Task not found or could not be updated."
	msgNoTasks      = "No tasks found."
	messageDivider  = "-------------------------------"
	statusAll       = "all"
	maxListedTitles = 40
)

type markAction struct {
	status  task.Status
	success string
	missing string
}

var (
	markTodo = markAction{
		status:  task.StatusNotStarted,
		success: "----Task Marked as Todo Successfully----",
		missing: msgNotUpdated,
	}
	markInProgress = markAction{
		status:  task.StatusInProgress,
		success: "----Task Marked as In Progress Successfully----",
		missing: "Task not found or could not be marked as in progress.",
	}
	markDone = markAction{
		status:  task.StatusDone,
		success: "----Task Marked as Done Successfully----",
		missing: msgNotUpdated,
	}
)

// addCommand creates a task from exactly one description argument.
func (a *app) addCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing task description")
	}
	if len(args) > 1 {
		return errExtraArgs
	}
	t, err := a.svc.Create(args[0])
	if err != nil {
		return describeError(err)
	}
	a.printResult("----Task Added Successfully----", t)
	return nil
}

func (a *app) getCommand(args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	t, err := a.svc.Get(id)
	if errors.Is(err, service.ErrNotFound) {
		fmt.Fprintln(a.out, msgNotFound)
		return nil
	}
	if err != nil {
		return describeError(err)
	}
	a.printResult("----------Task Found-----------", t)
	return nil
}

func (a *app) listCommand(args []string) error {
	if len(args) > 1 {
		return errExtraArgs
	}
	filter := statusAll
	if len(args) == 1 {
		filter = strings.ToLower(strings.TrimSpace(args[0]))
	}

	var (
		tasks []task.Task
		err   error
	)
	if filter == statusAll {
		tasks, err = a.svc.List()
	} else {
		status, parseErr := task.ParseStatus(filter)
		if parseErr != nil {
			return fmt.Errorf("%w (want all, todo, in-progress or done)", parseErr)
		}
		tasks, err = a.svc.ListByStatus(status)
	}
	if err != nil {
		return describeError(err)
	}

	if len(tasks) == 0 {
		fmt.Fprintln(a.out, msgNoTasks)
		return nil
	}
	fmt.Fprintln(a.out, renderTaskList(tasks, a.cfg.TimeFormat))
	return nil
}

func (a *app) updateCommand(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: update <id> <description>")
	}
	id, err := idArg(args[:1])
	if err != nil {
		return err
	}
	if len(args) > 2 {
		return errExtraArgs
	}
	t, err := a.svc.UpdateDescription(id, args[1])
	if errors.Is(err, service.ErrNotFound) {
		fmt.Fprintln(a.out, msgNotUpdated)
		return nil
	}
	if err != nil {
		return describeError(err)
	}
	a.printResult("----Task Updated Successfully----", t)
	return nil
}

func (a *app) deleteCommand(args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	removed, err := a.svc.Delete(id)
	if err != nil {
		return describeError(err)
	}
	if !removed {
		fmt.Fprintln(a.out, msgNotDeleted)
		return nil
	}
	fmt.Fprintln(a.out, "----Task Deleted Successfully----")
	return nil
}

func (a *app) markCommand(args []string, action markAction) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	t, err := a.svc.UpdateStatus(id, action.status)
	if errors.Is(err, service.ErrNotFound) {
		fmt.Fprintln(a.out, action.missing)
		return nil
	}
	if err != nil {
		return describeError(err)
	}
	a.printResult(action.success, t)
	return nil
}

func (a *app) printResult(header string, t task.Task) {
	fmt.Fprintln(a.out, header)
	fmt.Fprint(a.out, renderTask(t, a.cfg.TimeFormat))
	fmt.Fprintln(a.out, messageDivider)
}

// idArg parses the single task ID argument.
func idArg(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing task id")
	}
	if len(args) > 1 {
		return 0, errExtraArgs
	}
	id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", args[0])
	}
	return id, nil
}

// describeError adds context to facade errors that reach the user.
func describeError(err error) error {
	var invalid *task.InvalidStatusError
	switch {
	case errors.As(err, &invalid):
		return fmt.Errorf("task file holds an unknown status: %w", err)
	case errors.Is(err, store.ErrEmptyDescription):
		return err
	case errors.Is(err, store.ErrStorageUnavailable):
		return fmt.Errorf("%w (run 'task-cli doctor' to inspect the task file)", err)
	}
	return err
}
