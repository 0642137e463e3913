package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/filter"
)

func (a *App) cmdList() *Command {
	fs := newFlags("list")
	all := fs.BoolP("all", "a", false, "Ignore the current filter")

	return &Command{
		Flags: fs,
		Usage: "list [--all]",
		Short: "Show todos matching the current filter",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			if a.store.Owner() == "" {
				return domain.ErrAuthRequired
			}

			spec := a.filter
			if *all {
				spec = filter.Default()
			}

			t := newTheme(o.out)
			o.Printf("%s", t.renderList(a.store.View(spec), len(a.store.Todos()), a.now(), a.loc))
			return nil
		},
	}
}

func (a *App) cmdAdd() *Command {
	fs := newFlags("add")
	due := fs.StringP("due", "d", "", "Due date (YYYY-MM-DD)")
	category := fs.StringP("category", "c", "", "Category: work, personal, shopping, health, other")
	priority := fs.StringP("priority", "p", "", "Priority: low, medium, high")

	return &Command{
		Flags: fs,
		Usage: "add <text> [flags]",
		Short: "Add a todo",
		Long:  "Add a todo. Category defaults to personal and priority to medium.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			text := strings.Join(args, " ")
			if strings.TrimSpace(text) == "" {
				return ErrTextRequired
			}

			input := domain.NewTodo{
				Text:     text,
				Category: domain.Category(strings.ToLower(*category)),
				Priority: domain.Priority(strings.ToLower(*priority)),
			}
			if *due != "" {
				d, err := domain.ParseDate(*due)
				if err != nil {
					return err
				}
				input.DueDate = &d
			}

			created, err := a.store.Add(ctx, input)
			if err != nil {
				return err
			}
			o.Println("Added", shortID(created.ID), created.Text)
			return nil
		},
	}
}

func (a *App) cmdEdit() *Command {
	fs := newFlags("edit")
	text := fs.StringP("text", "t", "", "New text")
	due := fs.StringP("due", "d", "", "New due date (YYYY-MM-DD)")
	noDue := fs.Bool("no-due", false, "Remove the due date")
	category := fs.StringP("category", "c", "", "New category")
	priority := fs.StringP("priority", "p", "", "New priority")

	return &Command{
		Flags: fs,
		Usage: "edit <id> [flags]",
		Short: "Change fields of a todo",
		Long:  "Change fields of a todo. Only the flags given are changed.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			id, err := a.resolveID(args)
			if err != nil {
				return err
			}

			var patch domain.TodoPatch
			if fs.Changed("text") {
				patch.Text = text
			}
			switch {
			case *noDue && fs.Changed("due"):
				return ErrDueConflict
			case *noDue:
				patch.DueDate = domain.ClearDate()
			case fs.Changed("due"):
				d, err := domain.ParseDate(*due)
				if err != nil {
					return err
				}
				patch.DueDate = domain.SetDate(d)
			}
			if fs.Changed("category") {
				patch.Category = domain.Ptr(domain.Category(strings.ToLower(*category)))
			}
			if fs.Changed("priority") {
				patch.Priority = domain.Ptr(domain.Priority(strings.ToLower(*priority)))
			}
			if patch.IsEmpty() {
				return ErrNoChanges
			}

			if err := a.store.Update(ctx, id, patch); err != nil {
				return err
			}
			o.Println("Updated", shortID(id))
			return nil
		},
	}
}

// cmdDone builds "done" (completed=true) or "undone" (completed=false).
func (a *App) cmdDone(completed bool) *Command {
	name, short, verb := "done", "Mark a todo completed", "Completed"
	if !completed {
		name, short, verb = "undone", "Mark a todo not completed", "Reopened"
	}

	return &Command{
		Flags: newFlags(name),
		Usage: name + " <id>",
		Short: short,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			id, err := a.resolveID(args)
			if err != nil {
				return err
			}
			if err := a.store.Update(ctx, id, domain.TodoPatch{Completed: domain.Ptr(completed)}); err != nil {
				return err
			}
			o.Println(verb, shortID(id))
			return nil
		},
	}
}

func (a *App) cmdRemove() *Command {
	return &Command{
		Flags: newFlags("rm"),
		Usage: "rm <id>",
		Short: "Delete a todo",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			id, err := a.resolveID(args)
			if err != nil {
				return err
			}
			if err := a.store.Delete(ctx, id); err != nil {
				return err
			}
			o.Println("Deleted", shortID(id))
			return nil
		},
	}
}

func (a *App) cmdFilter() *Command {
	fs := newFlags("filter")
	search := fs.StringP("search", "s", "", "Case-insensitive text to look for")
	category := fs.StringP("category", "c", "", "Category, or all")
	priority := fs.StringP("priority", "p", "", "Priority, or all")
	showCompleted := fs.Bool("show-completed", true, "Include completed todos")
	reset := fs.Bool("reset", false, "Show everything again")

	return &Command{
		Flags: fs,
		Usage: "filter [flags]",
		Short: "Change which todos list shows",
		Long:  "Change which todos list shows. Flags not given keep their current value; the filter is remembered.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			spec := a.filter
			if *reset {
				spec = filter.Default()
			}
			if fs.Changed("search") {
				spec.SearchText = strings.TrimSpace(*search)
			}
			if fs.Changed("category") {
				c, err := filter.ParseCategoryFilter(*category)
				if err != nil {
					return err
				}
				spec.Category = c
			}
			if fs.Changed("priority") {
				p, err := filter.ParsePriorityFilter(*priority)
				if err != nil {
					return err
				}
				spec.Priority = p
			}
			if fs.Changed("show-completed") {
				spec.ShowCompleted = *showCompleted
			}

			a.filter = spec
			if err := a.saveSession(); err != nil {
				return err
			}
			o.Println("Filter:", describeFilter(spec))
			return nil
		},
	}
}

func (a *App) cmdStats() *Command {
	return &Command{
		Flags: newFlags("stats"),
		Usage: "stats",
		Short: "Show completion progress",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			if a.store.Owner() == "" {
				return domain.ErrAuthRequired
			}
			o.Println(newTheme(o.out).renderStats(a.store.Stats()))
			return nil
		},
	}
}

func (a *App) cmdWhoami() *Command {
	return &Command{
		Flags: newFlags("whoami"),
		Usage: "whoami",
		Short: "Show the signed-in user",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			if owner := a.store.Owner(); owner != "" {
				o.Println(owner)
				return nil
			}
			o.Println("Not signed in.")
			return nil
		},
	}
}

func (a *App) cmdLogin() *Command {
	return &Command{
		Flags: newFlags("login"),
		Usage: "login <userId>",
		Short: "Sign in and load that user's todos",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				return domain.ErrUserIDRequired
			}
			userID := strings.TrimSpace(args[0])
			if err := a.signIn(ctx, userID); err != nil {
				return err
			}
			o.Printf("Signed in as %s (%d todos)\n", userID, len(a.store.Todos()))
			return nil
		},
	}
}

func (a *App) cmdLogout() *Command {
	return &Command{
		Flags: newFlags("logout"),
		Usage: "logout",
		Short: "Sign out and forget the user",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			if err := a.store.Load(ctx, ""); err != nil {
				return err
			}
			a.session.UserID = ""
			if err := a.saveSession(); err != nil {
				return err
			}
			o.Println("Signed out.")
			return nil
		},
	}
}

func (a *App) cmdHelp(cmds []*Command) *Command {
	return &Command{
		Flags: newFlags("help"),
		Usage: "help [command]",
		Short: "Show help",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				a.PrintUsage(o.out)
				return nil
			}
			for _, c := range cmds {
				if c.Name() == args[0] {
					c.PrintHelp(o)
					return nil
				}
			}
			return fmt.Errorf("%w: %s", ErrUnknownCmd, args[0])
		},
	}
}
