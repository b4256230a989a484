package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/taskflow/internal/client/models"
	"github.com/dmitrijs2005/taskflow/internal/netx"
)

func (a *App) listTasks(ctx context.Context, args []string) error {
	fs := a.flagSet("tasks")
	project := fs.String("project", "", "only tasks of this project")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if err := a.authorize(); err != nil {
		return err
	}

	tasks, err := a.api.ListTasks(ctx, *project)
	if err != nil {
		return explain(err)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")
	for _, t := range tasks {
		due := t.DueDate
		if due == "" {
			due = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Priority, due, t.Title)
	}
	return tw.Flush()
}

func (a *App) addTask(ctx context.Context, args []string) error {
	var in models.NewTask

	fs := a.flagSet("add")
	fs.StringVarP(&in.Priority, "priority", "p", "", "low, medium or high")
	fs.StringVarP(&in.DueDate, "due", "d", "", "due date, YYYY-MM-DD")
	fs.StringVarP(&in.Category, "category", "c", "", "category")
	fs.StringVar(&in.Description, "description", "", "longer description")
	fs.StringVar(&in.ProjectID, "project", "", "project id")
	fs.StringVar(&in.AssigneeID, "assignee-id", "", "user id of the assignee")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}

	in.Title = strings.TrimSpace(strings.Join(fs.Args(), " "))
	if in.Title == "" {
		fmt.Fprintln(a.out, "Usage: taskctl add [flags] TITLE...")
		return ErrUsage
	}
	if err := a.authorize(); err != nil {
		return err
	}

	task, err := a.api.CreateTask(ctx, in)
	if err != nil {
		return explain(err)
	}
	fmt.Fprintf(a.out, "Created %s: %s\n", task.ID, task.Title)
	return nil
}

func (a *App) doneTask(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: taskctl done TASK_ID")
		return ErrUsage
	}
	return a.updateStatus(ctx, args[0], "done")
}

func (a *App) setStatus(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "Usage: taskctl status TASK_ID STATUS")
		return ErrUsage
	}
	return a.updateStatus(ctx, args[0], args[1])
}

func (a *App) updateStatus(ctx context.Context, id, status string) error {
	if err := a.authorize(); err != nil {
		return err
	}

	task, err := a.api.UpdateTask(ctx, id, map[string]any{"status": status})
	if err != nil {
		return explain(err)
	}
	fmt.Fprintf(a.out, "%s is now %s\n", task.ID, task.Status)
	return nil
}

func (a *App) removeTask(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: taskctl rm TASK_ID")
		return ErrUsage
	}
	if err := a.authorize(); err != nil {
		return err
	}

	if err := a.api.DeleteTask(ctx, args[0]); err != nil {
		return explain(err)
	}
	fmt.Fprintf(a.out, "Deleted %s\n", args[0])
	return nil
}

func (a *App) attach(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "Usage: taskctl attach TASK_ID FILE")
		return ErrUsage
	}
	taskID, path := args[0], args[1]

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	if err := a.authorize(); err != nil {
		return err
	}

	attachment, uploadURL, err := a.api.CreateAttachment(ctx, taskID, filepath.Base(path))
	if err != nil {
		return explain(err)
	}

	if err := netx.UploadToPresignedURL(ctx, a.upload, uploadURL, f, info.Size()); err != nil {
		return fmt.Errorf("attachment %s registered but upload failed: %w", attachment.ID, err)
	}

	fmt.Fprintf(a.out, "Attached %s (%d bytes) as %s\n", attachment.FileName, info.Size(), attachment.ID)
	return nil
}
