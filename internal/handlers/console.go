package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/chepyr/todo-console/internal/models"
	"github.com/chepyr/todo-console/internal/service"
)

const menu = `
=== To-Do Application ===
1. Add Task
2. View All Tasks
3. Update Task
4. Delete Task
5. Search Task
0. Exit
Enter your choice: `

// Run shows the menu and handles one command at a time until the user
// exits or input ends. It returns ctx.Err() if ctx is cancelled first.
func (h *Handler) Run(ctx context.Context) error {
	h.startReader()
	defer h.Close()

	for {
		fmt.Fprint(h.out, menu)
		choice, err := h.readLine(ctx)
		if err != nil {
			return h.finish(err)
		}

		exit, err := h.HandleCommand(ctx, trimmed(choice))
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return h.finish(err)
			}
			h.sendError(err)
		}
		if exit {
			return nil
		}
	}
}

func (h *Handler) finish(err error) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(h.out)
		return nil
	}
	return err
}

// HandleCommand runs one menu choice with all of its follow-up prompts:
// 1 add, 2 view all, 3 update, 4 delete, 5 search, 0 exit.
// The returned bool is true only for exit. Call Close when done if it is
// used without Run.
func (h *Handler) HandleCommand(ctx context.Context, choice string) (bool, error) {
	slog.Debug("handling command", "choice", choice)

	switch choice {
	case "1":
		return false, h.handleAddTask(ctx)
	case "2":
		return false, h.handleViewAllTasks(ctx)
	case "3":
		return false, h.handleUpdateTask(ctx)
	case "4":
		return false, h.handleDeleteTask(ctx)
	case "5":
		return false, h.handleSearchTask(ctx)
	case "0":
		fmt.Fprintln(h.out, "Exiting application. Goodbye!")
		return true, nil
	default:
		fmt.Fprintln(h.out, "Invalid choice. Please try again.")
		return false, nil
	}
}

func (h *Handler) handleAddTask(ctx context.Context) error {
	description, err := h.prompt(ctx, "Enter task description: ")
	if err != nil {
		return err
	}

	ok, err := h.tasks.AddTask(ctx, description)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintln(h.out, "Task added successfully!")
	} else {
		fmt.Fprintln(h.out, "Failed to add task to the database.")
	}
	return nil
}

func (h *Handler) handleViewAllTasks(ctx context.Context) error {
	tasks, err := h.tasks.GetAllTasks(ctx)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(h.out, "Your To-Do list is empty.")
		return nil
	}
	h.printTasks("Your Tasks", tasks)
	return nil
}

func (h *Handler) handleUpdateTask(ctx context.Context) error {
	id, err := h.promptID(ctx, "Enter the ID of the task to update: ")
	if err != nil {
		return err
	}

	existing, err := h.tasks.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		fmt.Fprintf(h.out, "No task found with ID: %d\n", id)
		return nil
	}

	// empty answers keep the current values
	description, err := h.prompt(ctx, fmt.Sprintf("Enter new description (or press Enter to keep '%s'): ", existing.Description))
	if err != nil {
		return err
	}
	if strings.TrimSpace(description) == "" {
		description = existing.Description
	}

	statusInput, err := h.prompt(ctx, fmt.Sprintf("Enter new status (%s / %s) or press Enter to keep '%s': ",
		models.TaskStatusPending, models.TaskStatusCompleted, existing.Status))
	if err != nil {
		return err
	}
	status := existing.Status
	if trimmed(statusInput) != "" {
		status, err = service.ParseStatus(statusInput)
		if err != nil {
			return err
		}
	}

	ok, err := h.tasks.UpdateTask(ctx, existing, description, status)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintln(h.out, "Task updated successfully!")
	} else {
		fmt.Fprintln(h.out, "Failed to update the task.")
	}
	return nil
}

func (h *Handler) handleDeleteTask(ctx context.Context) error {
	id, err := h.promptID(ctx, "Enter the ID of the task to delete: ")
	if err != nil {
		return err
	}

	ok, err := h.tasks.DeleteTask(ctx, id)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintln(h.out, "Task deleted successfully!")
	} else {
		fmt.Fprintln(h.out, "Failed to delete task. Make sure the ID exists.")
	}
	return nil
}

func (h *Handler) handleSearchTask(ctx context.Context) error {
	keyword, err := h.prompt(ctx, "Enter a keyword to search in task descriptions: ")
	if err != nil {
		return err
	}

	found, err := h.tasks.SearchTasks(ctx, keyword)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		all, err := h.tasks.GetAllTasks(ctx)
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Fprintln(h.out, "Your To-Do list is empty. Nothing to search.")
			return nil
		}
		fmt.Fprintf(h.out, "No tasks found containing the word: '%s'\n", keyword)
		return nil
	}
	h.printTasks("Search Results", found)
	return nil
}

func (h *Handler) printTasks(header string, tasks []*models.Task) {
	fmt.Fprintf(h.out, "\n--- %s ---\n", header)
	w := tabwriter.NewWriter(h.out, 0, 0, 1, ' ', 0)
	fmt.Fprintln(w, "ID\t| Status\t| Description\t| Created At")
	for _, task := range tasks {
		fmt.Fprintf(w, "%d\t| %s\t| %s\t| %s\n",
			task.ID, task.Status, displayDescription(task.Description), task.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
}

// displayDescription keeps a task on a single table row.
func displayDescription(description string) string {
	description = strings.ReplaceAll(description, "\r", " ")
	return strings.ReplaceAll(description, "\n", " ")
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
