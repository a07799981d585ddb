package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"taskdeck/internal/api"
	"taskdeck/internal/model"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksCreateCmd(app))
	cmd.AddCommand(newTasksUpdateCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	cmd.AddCommand(newTasksDoneCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var filter model.Filter
	var page, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks (server-side filtering and paging)",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, _, err := buildDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := requireAuth(sess); err != nil {
				return writeErr(cmd, err)
			}
			if err := validateFilter(filter); err != nil {
				return writeErr(cmd, err)
			}

			tp, err := svc.GetTasks(cmd.Context(), filter, page, limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": tp.Tasks,
				"pagination": map[string]any{
					"page":  page,
					"limit": limit,
					"total": tp.Total,
				},
			})
		},
	}

	cmd.Flags().StringVar(&filter.Category, "category", "", "Filter by category (personal|work|shopping|health)")
	cmd.Flags().StringVar(&filter.Priority, "priority", "", "Filter by priority (low|medium|high)")
	cmd.Flags().StringVar(&filter.Completed, "completed", "", "Filter by completion (true|false)")
	cmd.Flags().StringVar(&filter.DueDate, "due", "", "Filter by due date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Page size")
	return cmd
}

func newTasksCreateCmd(app *App) *cobra.Command {
	var title, description, category, priority, due string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, _, err := buildDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := requireAuth(sess); err != nil {
				return writeErr(cmd, err)
			}

			fields, err := assembleFields(title, description, category, priority, due, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := svc.CreateTask(cmd.Context(), fields)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&category, "category", string(model.CategoryPersonal), "Category (personal|work|shopping|health)")
	cmd.Flags().StringVar(&priority, "priority", string(model.PriorityMedium), "Priority (low|medium|high)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTasksUpdateCmd(app *App) *cobra.Command {
	var title, description, category, priority, due string
	var completed bool

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update a task (full record; the server response is authoritative)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, _, err := buildDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := requireAuth(sess); err != nil {
				return writeErr(cmd, err)
			}

			fields, err := assembleFields(title, description, category, priority, due, completed)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, err := svc.UpdateTask(cmd.Context(), args[0], fields)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&category, "category", string(model.CategoryPersonal), "Category (personal|work|shopping|health)")
	cmd.Flags().StringVar(&priority, "priority", string(model.PriorityMedium), "Priority (low|medium|high)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&completed, "completed", false, "Completion state")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, _, err := buildDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := requireAuth(sess); err != nil {
				return writeErr(cmd, err)
			}

			if !yes {
				answer, err := promptLine(cmd, fmt.Sprintf("Delete task %s? [y/N] ", args[0]))
				if err != nil {
					return writeErr(cmd, err)
				}
				if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
					return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": false}})
				}
			}

			if err := svc.DeleteTask(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": true, "id": args[0]}})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}

func newTasksDoneCmd(app *App) *cobra.Command {
	var undone bool

	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task completed (or pending with --undo)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, sess, _, err := buildDeps(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := requireAuth(sess); err != nil {
				return writeErr(cmd, err)
			}

			t, err := findTask(cmd, svc, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			fields := t.Fields()
			fields.Completed = !undone

			updated, err := svc.UpdateTask(cmd.Context(), t.ID, fields)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": updated})
		},
	}

	cmd.Flags().BoolVar(&undone, "undo", false, "Mark pending instead of completed")
	return cmd
}

// findTask pages through the unfiltered collection looking for id. The API has
// no single-task GET, so this mirrors what the dashboard does.
func findTask(cmd *cobra.Command, svc api.Service, id string) (model.Task, error) {
	const limit = 100
	for page := 1; ; page++ {
		tp, err := svc.GetTasks(cmd.Context(), model.Filter{}, page, limit)
		if err != nil {
			return model.Task{}, err
		}
		for _, t := range tp.Tasks {
			if t.ID == id {
				return t, nil
			}
		}
		if page*limit >= tp.Total || len(tp.Tasks) == 0 {
			return model.Task{}, fmt.Errorf("task not found: %s", id)
		}
	}
}

func validateFilter(f model.Filter) error {
	if f.Category != "" && !model.ValidCategory(f.Category) {
		return fmt.Errorf("invalid category %q", f.Category)
	}
	if f.Priority != "" && !model.ValidPriority(f.Priority) {
		return fmt.Errorf("invalid priority %q", f.Priority)
	}
	switch f.Completed {
	case "", "true", "false":
	default:
		return fmt.Errorf("invalid completed value %q (want true or false)", f.Completed)
	}
	if f.DueDate != "" {
		if _, err := time.Parse("2006-01-02", f.DueDate); err != nil {
			return fmt.Errorf("invalid due date %q (want YYYY-MM-DD)", f.DueDate)
		}
	}
	return nil
}

func assembleFields(title, description, category, priority, due string, completed bool) (model.TaskFields, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.TaskFields{}, errors.New("title is required")
	}
	if !model.ValidCategory(category) {
		return model.TaskFields{}, fmt.Errorf("invalid category %q", category)
	}
	if !model.ValidPriority(priority) {
		return model.TaskFields{}, fmt.Errorf("invalid priority %q", priority)
	}

	fields := model.TaskFields{
		Title:       title,
		Description: description,
		Category:    model.Category(category),
		Priority:    model.Priority(priority),
		Completed:   completed,
	}
	if due != "" {
		d, err := time.Parse("2006-01-02", due)
		if err != nil {
			return model.TaskFields{}, fmt.Errorf("invalid due date %q (want YYYY-MM-DD)", due)
		}
		d = d.UTC()
		fields.DueDate = &d
	}
	return fields, nil
}
