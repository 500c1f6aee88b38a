// Package cmdreg dispatches a program's first argument to a registered
// sub-command and wires up shell completion for them.
package cmdreg

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/posener/complete/v2"
)

// CommandFunc runs a sub-command. args[0] is the sub-command's name.
type CommandFunc func(ctx context.Context, args []string)

type command struct {
	fn         CommandFunc
	completion *complete.Command
}

type CommandRegistry struct {
	programName string
	commands    map[string]*command
	stderr      io.Writer
	exit        func(code int)
}

type Option func(*CommandRegistry)

func WithProgramName(name string) Option {
	return func(r *CommandRegistry) {
		r.programName = name
	}
}

func New(opts ...Option) *CommandRegistry {
	r := &CommandRegistry{
		programName: "carlot",
		commands:    make(map[string]*command),
		stderr:      os.Stderr,
		exit:        os.Exit,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

type RegisterOption func(*command)

// WithCompletion attaches completion rules for the sub-command's arguments.
func WithCompletion(c *complete.Command) RegisterOption {
	return func(cmd *command) {
		cmd.completion = c
	}
}

func (r *CommandRegistry) RegisterFunc(name string, fn CommandFunc, opts ...RegisterOption) {
	if _, ok := r.commands[name]; ok {
		panic(fmt.Errorf("command %q registered twice", name))
	}
	cmd := &command{fn: fn}
	for _, o := range opts {
		o(cmd)
	}
	r.commands[name] = cmd
}

// Exec runs the sub-command named by args[1]; args are typically os.Args.
// When invoked by the shell for completion it completes and exits instead.
func (r *CommandRegistry) Exec(ctx context.Context, args []string) {
	r.completion().Complete(r.programName)

	if err := r.dispatch(ctx, args); err != nil {
		fmt.Fprintf(r.stderr, "%s: %s\n\n", r.programName, err)
		r.PrintHelp(r.stderr)
		r.exit(2)
	}
}

func (r *CommandRegistry) dispatch(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("missing command")
	}
	cmd, ok := r.commands[args[1]]
	if !ok {
		return fmt.Errorf("unknown command %q", args[1])
	}
	cmd.fn(ctx, args[1:])
	return nil
}

func (r *CommandRegistry) completion() *complete.Command {
	root := &complete.Command{Sub: make(map[string]*complete.Command, len(r.commands))}
	for name, cmd := range r.commands {
		c := cmd.completion
		if c == nil {
			c = &complete.Command{}
		}
		root.Sub[name] = c
	}
	return root
}

func (r *CommandRegistry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *CommandRegistry) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "usage: %s <command> [args]\n\ncommands:\n", r.programName)
	for _, name := range r.Names() {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintf(w, "\nshell completion: COMP_INSTALL=1 %s\n", r.programName)
}
