// Package cli maps "payroll <group> <command>" invocations to the storage,
// order and report services.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"worker-payroll/internal/errs"
)

// Command runs one CLI command. args excludes the command path.
type Command func(ctx context.Context, args []string, out io.Writer) error

type route struct {
	cmd   Command
	usage string
}

type Router struct {
	routes map[string]route
}

func NewRouter() *Router {
	return &Router{routes: make(map[string]route)}
}

// Handle registers cmd under a path such as "worker add".
func (r *Router) Handle(path, usage string, cmd Command) {
	r.routes[path] = route{cmd: cmd, usage: usage}
}

func (r *Router) Run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) >= 2 {
		if rt, ok := r.routes[args[0]+" "+args[1]]; ok {
			return rt.cmd(ctx, args[2:], out)
		}
	}
	if len(args) >= 1 {
		if rt, ok := r.routes[args[0]]; ok {
			return rt.cmd(ctx, args[1:], out)
		}
	}

	r.Usage(out)

	if len(args) == 0 {
		return errs.NewValidationError("command", "no command given")
	}
	return errs.NewValidationError("command", fmt.Sprintf("unknown command %q", strings.Join(args, " ")))
}

func (r *Router) Usage(out io.Writer) {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	fmt.Fprintln(out, "usage: payroll <command> [flags]")
	fmt.Fprintln(out)
	for _, p := range paths {
		fmt.Fprintf(out, "  %-20s %s\n", p, r.routes[p].usage)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errs.NewValidationErrorWithCause("args", fmt.Sprintf("%s: %v", fs.Name(), err), err)
	}
	return nil
}

func wantArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return errs.NewValidationError("args", "usage: "+usage)
	}
	return nil
}

func parseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewValidationError(field, fmt.Sprintf("%q is not a valid id", raw))
	}
	return id, nil
}
