package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store/jsonstore"
	"github.com/idilsaglam/tasks/internal/ui"
)

// Options carry the resolved config into the runner.
type Options struct {
	Config *config.Config
	Logger *log.Logger

	// runList replaces the interactive program; tests set it.
	runList func(*jsonstore.Store) (bool, error)
}

func (o *Options) defaults() {
	if o.Config == nil {
		o.Config = &config.Config{
			DataFile:  config.DefaultDataFile,
			Theme:     config.DefaultTheme,
			Color:     config.DefaultColor,
			LogLevel:  config.DefaultLogLevel,
			LogFormat: config.DefaultLogFormat,
		}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.runList == nil {
		o.runList = runInteractiveList
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	opt.defaults()
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]
	opt.Logger.Debug("dispatch", "cmd", cmd, "db", opt.Config.DataFile)

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls", "list":
		return withStore(opt, func(s *jsonstore.Store) int { return doList(s, opt) })

	case "tui":
		return withStore(opt, func(s *jsonstore.Store) int { return doInteractive(s, opt) })

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: tasks add <label...>")
			return 2
		}
		label, err := model.NewLabel(strings.Join(a, " "))
		if err != nil {
			ui.Fail("add: " + err.Error())
			return 2
		}
		return withStore(opt, func(s *jsonstore.Store) int { return doAdd(s, label) })

	case "complete", "done":
		if len(a) == 0 {
			ui.Fail("usage: tasks complete <label...>")
			return 2
		}
		label := strings.TrimSpace(strings.Join(a, " "))
		if label == "" {
			ui.Fail("complete: " + model.ErrEmptyLabel.Error())
			return 2
		}
		return withStore(opt, func(s *jsonstore.Store) int { return doComplete(s, label) })
	}

	ui.Fail("unknown subcommand: " + cmd)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Fprint(ui.Stdout(), `tasks - a tiny task tracker

Usage:
  tasks [flags] <subcommand> [args]

Subcommands:
  add <label...>       Add a task, or reopen it if it exists
  complete <label...>  Mark a task complete
  ls                   List tasks
  tui                  Interactive list (space toggles, a adds, q quits)

Flags:
  -db <path>           Task file (default db.json)
  -group               Group ls output by pending/done
  -theme <name>        classic, neon, mono
  -color <mode>        auto, always, never
  -lock                Lock the task file while running
  -log-level <level>   debug, info, warn, error

Examples:
  tasks add "Buy milk"
  tasks complete "Buy milk"
  tasks ls
`)
}

// withStore opens the store (under the file lock when enabled) and runs fn.
func withStore(opt Options, fn func(*jsonstore.Store) int) int {
	release, err := acquireLock(opt.Config)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	defer release()

	s, err := jsonstore.Open(opt.Config.DataFile, jsonstore.WithLogger(opt.Logger))
	if err != nil {
		opt.Logger.Error("load failed", "err", err)
		ui.Fail("load: " + err.Error())
		var de *jsonstore.DecodeError
		if errors.As(err, &de) {
			ui.Hint("Hint: fix or move " + de.Path + "; it was left untouched")
		}
		return 1
	}
	return fn(s)
}

func save(s *jsonstore.Store) int {
	if err := s.Save(); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	return 0
}

// -------------- subcommand impls ----------------

func doAdd(s *jsonstore.Store, label model.Label) int {
	previous, existed := s.Insert(label)
	if code := save(s); code != 0 {
		return code
	}
	switch {
	case !existed:
		ui.OK("added " + label.String())
	case previous:
		ui.OK(label.String() + " is already pending")
	default:
		ui.OK("reopened " + label.String())
	}
	return 0
}

func doComplete(s *jsonstore.Store, label string) int {
	if !s.Complete(label) {
		ui.Fail(fmt.Sprintf("'%s' is not present in the task list", label))
		ui.Hint("Hint: run `tasks ls` to see known tasks")
		return 1
	}
	if code := save(s); code != 0 {
		return code
	}
	ui.OK(label + " is now complete")
	return 0
}

func doList(s *jsonstore.Store, opt Options) int {
	tasks := s.Tasks()
	d, p := s.Counts()
	t := ui.Current()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Tasks"),
		ui.C(t.Success, t.SymDone), d,
		ui.C(t.Pending, t.SymUnchecked), p,
		ui.C(t.Accent, "Total"), len(tasks),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if opt.Config.Group {
		lines = append(lines, groupLines(tasks)...)
	} else {
		lines = append(lines, flatLines(tasks)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `tasks add \"Buy milk\"`"))
	ui.Panel(lines)
	return 0
}

func doInteractive(s *jsonstore.Store, opt Options) int {
	changed, err := opt.runList(s)
	if err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	if !changed {
		return 0
	}
	if code := save(s); code != 0 {
		return code
	}
	ui.OK("saved")
	return 0
}

// -------------- rendering helpers --------------

const maxLabelWidth = 80

func flatLines(tasks []model.Task) []string {
	if len(tasks) == 0 {
		return []string{ui.C(ui.Current().Muted, "no tasks")}
	}
	t := ui.Current()
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		box, color := t.BoxUnchecked, t.Muted
		if task.Status.Done() {
			box, color = t.BoxChecked, t.Success
		}
		label := task.Label
		if r := []rune(label); len(r) > maxLabelWidth {
			label = string(r[:maxLabelWidth-3]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s  %s",
			ui.C(color, box), label, ui.C(t.Muted, string(task.Status))))
	}
	return out
}

func groupLines(tasks []model.Task) []string {
	var pend, done []model.Task
	for _, task := range tasks {
		if task.Status.Done() {
			done = append(done, task)
		} else {
			pend = append(pend, task)
		}
	}
	t := ui.Current()
	var lines []string
	lines = append(lines, ui.C(t.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
