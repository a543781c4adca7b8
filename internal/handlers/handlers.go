package handlers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/chepyr/todo-console/internal/models"
	"github.com/chepyr/todo-console/internal/service"
)

// TaskService is what the console needs from the service layer.
type TaskService interface {
	AddTask(ctx context.Context, description string) (bool, error)
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	UpdateTask(ctx context.Context, existing *models.Task, description string, status models.TaskStatus) (bool, error)
	DeleteTask(ctx context.Context, id int64) (bool, error)
	GetAllTasks(ctx context.Context) ([]*models.Task, error)
	SearchTasks(ctx context.Context, keyword string) ([]*models.Task, error)
}

var _ TaskService = (*service.TaskService)(nil)

// Handler runs the interactive menu loop. User facing output goes to out,
// error messages to errOut.
type Handler struct {
	tasks TaskService

	in         io.Reader
	out        io.Writer
	errOut     io.Writer
	lines      <-chan inputLine
	stopReader func()
}

type inputLine struct {
	text string
	err  error
}

func NewHandler(svc TaskService, in io.Reader, out, errOut io.Writer) *Handler {
	if svc == nil {
		panic("handlers: TaskService implementation cannot be nil")
	}
	return &Handler{tasks: svc, in: in, out: out, errOut: errOut}
}

// startReader pumps input lines into a channel so a blocked read never
// prevents the loop from noticing a cancelled context. It is a no-op while
// a reader is already running.
func (h *Handler) startReader() {
	if h.lines != nil {
		return
	}
	lines := make(chan inputLine)
	done := make(chan struct{})
	h.lines = lines
	h.stopReader = func() { close(done) }

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(h.in)
		for scanner.Scan() {
			select {
			case lines <- inputLine{text: strings.TrimSuffix(scanner.Text(), "\r")}:
			case <-done:
				return
			}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		select {
		case lines <- inputLine{err: err}:
		case <-done:
		}
	}()
}

// Close stops the input reader started by Run or HandleCommand.
func (h *Handler) Close() {
	if h.stopReader != nil {
		h.stopReader()
		h.stopReader = nil
		h.lines = nil
	}
}

func (h *Handler) readLine(ctx context.Context) (string, error) {
	h.startReader()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-h.lines:
		if !ok {
			return "", io.EOF
		}
		return line.text, line.err
	}
}

func (h *Handler) prompt(ctx context.Context, text string) (string, error) {
	fmt.Fprint(h.out, text)
	return h.readLine(ctx)
}

func (h *Handler) promptID(ctx context.Context, text string) (int64, error) {
	raw, err := h.prompt(ctx, text)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(trimmed(raw), 10, 64)
}

// sendError reports a failed command and lets the loop carry on.
func (h *Handler) sendError(err error) {
	var numErr *strconv.NumError
	switch {
	case errors.As(err, &numErr):
		fmt.Fprintln(h.errOut, "Error: Please enter a valid number for the Id.")
	case errors.Is(err, service.ErrInvalidInput):
		fmt.Fprintf(h.errOut, "Error: %v\n", err)
	default:
		slog.Error("command failed", "error", err)
		fmt.Fprintf(h.errOut, "An unexpected error occurred: %v\n", err)
	}
}
