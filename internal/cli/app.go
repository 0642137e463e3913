// Package cli is the terminal client: one-shot commands and an interactive
// prompt over the todo store.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/filter"
	"github.com/Tomlord1122/todo-tracker/internal/store"
)

var (
	ErrIDRequired   = errors.New("todo id is required")
	ErrTextRequired = errors.New("todo text is required")
	ErrNoChanges    = errors.New("nothing to change")
	ErrUnknownCmd   = errors.New("unknown command")
	ErrDueConflict  = errors.New("--due and --no-due are mutually exclusive")
)

// Options configures an App.
type Options struct {
	Store       *store.Store
	SessionPath string
	Location    *time.Location
	DevMode     bool
	Now         func() time.Time
}

// App binds the commands to a store and a remembered session.
type App struct {
	store       *store.Store
	sessionPath string
	session     Session
	filter      filter.Spec
	loc         *time.Location
	devMode     bool
	now         func() time.Time
}

func NewApp(opts Options) *App {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &App{
		store:       opts.Store,
		sessionPath: opts.SessionPath,
		filter:      filter.Default(),
		loc:         opts.Location,
		devMode:     opts.DevMode,
		now:         opts.Now,
	}
}

// Start restores the session and signs in. userID overrides the remembered
// user; in development mode a random user is created when none is known.
func (a *App) Start(ctx context.Context, userID string) error {
	if a.sessionPath != "" {
		session, err := LoadSession(a.sessionPath)
		if err != nil {
			return err
		}
		a.session = session
		a.filter = session.FilterOrDefault()
	}

	if userID == "" {
		userID = a.session.UserID
	}
	if userID == "" && a.devMode {
		userID = uuid.NewString()
		log.Printf("Development mode: signed in as new user %s", userID)
	}
	if userID == "" {
		return nil
	}

	return a.signIn(ctx, userID)
}

func (a *App) signIn(ctx context.Context, userID string) error {
	if err := a.store.Load(ctx, userID); err != nil {
		return err
	}
	if a.session.UserID != userID {
		a.session.UserID = userID
		return a.saveSession()
	}
	return nil
}

func (a *App) saveSession() error {
	if a.sessionPath == "" {
		return nil
	}
	spec := a.filter
	a.session.Filter = &spec
	return a.session.Save(a.sessionPath)
}

// Filter returns the filter the list command applies.
func (a *App) Filter() filter.Spec {
	return a.filter
}

// commands builds a fresh command table; flag sets keep parsed values, so they
// are never reused between runs.
func (a *App) commands() []*Command {
	cmds := []*Command{
		a.cmdList(),
		a.cmdAdd(),
		a.cmdEdit(),
		a.cmdDone(true),
		a.cmdDone(false),
		a.cmdRemove(),
		a.cmdFilter(),
		a.cmdStats(),
		a.cmdWhoami(),
		a.cmdLogin(),
		a.cmdLogout(),
	}
	return append(cmds, a.cmdHelp(cmds))
}

// CommandNames lists every command name, sorted, for completion.
func (a *App) CommandNames() []string {
	var names []string
	for _, c := range a.commands() {
		names = append(names, c.Name())
	}
	names = append(names, "quit")
	sort.Strings(names)
	return names
}

// Execute runs one command line already split into words. Returns exit code.
func (a *App) Execute(ctx context.Context, o *IO, args []string) int {
	if len(args) == 0 {
		return 0
	}

	name := strings.ToLower(args[0])
	for _, c := range a.commands() {
		if c.Name() == name {
			return c.Run(ctx, o, args[1:])
		}
	}

	o.ErrPrintln("error:", fmt.Errorf("%w: %s", ErrUnknownCmd, args[0]))
	o.ErrPrintln("Type 'help' for available commands.")
	return 1
}

// PrintUsage writes the global help listing.
func (a *App) PrintUsage(w io.Writer) {
	o := NewIO(w, w)
	o.Println("Commands:")
	for _, c := range a.commands() {
		o.Println(c.HelpLine())
	}
	o.Println(fmt.Sprintf("  %-30s %s", "quit", "Leave the interactive prompt"))
	o.Println()
	o.Println("Ids may be shortened to any unique prefix. Run '<command> --help' for flags.")
}

// resolveID turns a user-typed id prefix into a full id.
func (a *App) resolveID(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrIDRequired
	}
	if a.store.Owner() == "" {
		return "", domain.ErrAuthRequired
	}
	return a.store.ResolveID(args[0])
}

// describeError adds a hint to errors the user can act on.
func describeError(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		return err.Error() + " (run 'login <userId>' first)"
	case errors.Is(err, store.ErrAmbiguousID):
		return err.Error() + " (type more characters)"
	default:
		return err.Error()
	}
}
