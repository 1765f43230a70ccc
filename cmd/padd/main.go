/*
Padd formats source files against a user-supplied specification.

Usage:

	padd fmt [flags] TARGET
	padd forget [flags] TARGET
	padd start-server [flags]
	padd kill [flags]

The fmt subcommand compiles a specification (see --spec) and formats TARGET,
a single file or a directory walked recursively. Files already up to date
for the current specification are skipped unless --no-skip is given; a
tracker entry is written for each formatted file unless --no-track is given.

The forget subcommand removes all tracker data found under TARGET.

The start-server subcommand compiles the specification and runs the daemon's
control plane in the foreground until it is killed or interrupted; fmt does
not use the daemon and always compiles the specification itself. The kill
subcommand shuts down a running daemon.

The flags are:

	-s, --spec FILE
		Specification file to compile. Defaults to the project's
		.padd.toml "spec" setting if present.

	-t, --threads N
		Number of files to format concurrently. Defaults to 1, or the
		project's .padd.toml "workers" setting if present.

	--no-skip
		Format every file even if its tracker entry is already current.

	--no-track
		Do not write tracker entries after formatting.

	--no-write
		Format and report, but do not write results back to disk.

	-l, --listen ADDRESS
		Daemon listen/dial address for start-server and kill. Defaults to
		127.0.0.1:4774, or the project's .padd.toml "daemon_address".
*/
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/dekarrin/padd"
	"github.com/dekarrin/padd/internal/cli"
	"github.com/dekarrin/padd/internal/cliconfig"
	"github.com/dekarrin/padd/internal/daemon"
	"github.com/dekarrin/padd/internal/tracker"
	"github.com/dekarrin/padd/internal/workpool"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitBuildError
	ExitFormatError
	ExitIOError
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, cli.Help("padd: missing subcommand; expected fmt, forget, start-server, or kill.", cli.DefaultWidth))
		return ExitUsageError
	}

	projectCfg, err := cliconfig.Load(cliconfig.FileName)
	if err != nil {
		cli.ReportError(os.Stderr, err, cli.DefaultWidth)
		return ExitIOError
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "fmt":
		return runFmt(rest, projectCfg)
	case "forget":
		return runForget(rest)
	case "start-server":
		return runStartServer(rest, projectCfg)
	case "kill":
		return runKill(rest, projectCfg)
	default:
		fmt.Fprintf(os.Stderr, "padd: unknown subcommand %q\n", sub)
		return ExitUsageError
	}
}

func runFmt(args []string, projectCfg cliconfig.Config) int {
	fs := pflag.NewFlagSet("fmt", pflag.ContinueOnError)
	specPath := fs.StringP("spec", "s", projectCfg.Spec, "specification file to compile")
	threads := fs.IntP("threads", "t", projectCfg.Workers, "number of files to format concurrently")
	matching := fs.String("matching", "", "only format files whose name matches this regex")
	noSkip := fs.Bool("no-skip", false, "format every file regardless of tracker state")
	noTrack := fs.Bool("no-track", false, "do not write tracker entries")
	noWrite := fs.Bool("no-write", false, "do not write formatted output back to disk")
	if err := fs.Parse(args); err != nil {
		return ExitUsageError
	}

	if *specPath == "" {
		fmt.Fprintln(os.Stderr, "padd fmt: no specification given (use --spec or .padd.toml)")
		return ExitUsageError
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "padd fmt: missing TARGET")
		return ExitUsageError
	}
	target := fs.Arg(0)

	if *threads < 1 {
		*threads = 1
	}

	specBytes, err := os.ReadFile(*specPath)
	if err != nil {
		cli.ReportError(os.Stderr, err, cli.DefaultWidth)
		return ExitIOError
	}
	specHash := sha256Hex(specBytes)

	eng, err := padd.Build(string(specBytes))
	if err != nil {
		cli.ReportError(os.Stderr, err, cli.DefaultWidth)
		return ExitBuildError
	}

	var nameFilter *regexp.Regexp
	if *matching != "" {
		nameFilter, err = regexp.Compile(*matching)
		if err != nil {
			cli.ReportError(os.Stderr, err, cli.DefaultWidth)
			return ExitUsageError
		}
	}

	paths, err := collectTargets(target, nameFilter)
	if err != nil {
		cli.ReportError(os.Stderr, err, cli.DefaultWidth)
		return ExitIOError
	}

	jobs := make([]workpool.Job, 0, len(paths))
	for _, p := range paths {
		if !*noSkip && !tracker.NeedsFormatting(p, specHash) {
			continue
		}
		text, err := os.ReadFile(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "padd fmt: skipping %s: %s\n", p, err)
			continue
		}
		jobs = append(jobs, workpool.Job{Path: p, Text: string(text)})
	}

	results, metrics := workpool.Run(*threads, eng, jobs)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "padd fmt: %s: %s\n", r.Path, r.Err)
			continue
		}
		if !*noWrite {
			if err := os.WriteFile(r.Path, []byte(r.Text), 0o660); err != nil {
				fmt.Fprintf(os.Stderr, "padd fmt: could not write %s: %s\n", r.Path, err)
				continue
			}
		}
		if !*noTrack {
			if err := tracker.Track(r.Path, specHash); err != nil {
				fmt.Fprintf(os.Stderr, "padd fmt: could not track %s: %s\n", r.Path, err)
			}
		}
	}

	fmt.Printf("padd fmt: %d formatted, %d failed, %d skipped\n", metrics.Succeeded(), metrics.Failed(), len(paths)-len(jobs))
	if metrics.Failed() > 0 {
		return ExitFormatError
	}
	return ExitSuccess
}

func collectTargets(target string, nameFilter *regexp.Regexp) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{target}, nil
	}

	var paths []string
	err = filepath.Walk(target, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if filepath.Base(p) == tracker.Dir {
				return filepath.SkipDir
			}
			return nil
		}
		if nameFilter != nil && !nameFilter.MatchString(fi.Name()) {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	return paths, err
}

func runForget(args []string) int {
	fs := pflag.NewFlagSet("forget", pflag.ContinueOnError)
	all := fs.Bool("all", false, "remove tracking data without confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return ExitUsageError
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "padd forget: missing TARGET")
		return ExitUsageError
	}
	target := fs.Arg(0)

	if !*all {
		confirmed, err := confirm(fmt.Sprintf("Clear all tracking data under %s? [y/N] ", target))
		if err != nil {
			cli.ReportError(os.Stderr, err, cli.DefaultWidth)
			return ExitIOError
		}
		if !confirmed {
			fmt.Println("padd forget: cancelled")
			return ExitSuccess
		}
	}

	cleared, err := tracker.Clear(target)
	if err != nil {
		cli.ReportError(os.Stderr, err, cli.DefaultWidth)
		return ExitIOError
	}
	fmt.Printf("padd forget: removed %d tracking director(y/ies)\n", cleared)
	return ExitSuccess
}

func confirm(prompt string) (bool, error) {
	rl, err := readline.New(prompt)
	if err != nil {
		return false, fmt.Errorf("start confirmation prompt: %w", err)
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err != nil {
		return false, nil
	}
	return line == "y" || line == "Y" || line == "yes", nil
}

func runStartServer(args []string, projectCfg cliconfig.Config) int {
	fs := pflag.NewFlagSet("start-server", pflag.ContinueOnError)
	specPath := fs.StringP("spec", "s", projectCfg.Spec, "specification file to keep resident")
	listen := fs.StringP("listen", "l", projectCfg.DaemonAddress, "address to listen on")
	dbPath := fs.String("db", "padd-daemon.db", "path to the session store")
	if err := fs.Parse(args); err != nil {
		return ExitUsageError
	}
	if *listen == "" {
		*listen = daemon.DefaultAddress
	}
	if *specPath == "" {
		fmt.Fprintln(os.Stderr, "padd start-server: no specification given (use --spec or .padd.toml)")
		return ExitUsageError
	}

	specBytes, err := os.ReadFile(*specPath)
	if err != nil {
		cli.ReportError(os.Stderr, err, cli.DefaultWidth)
		return ExitIOError
	}
	eng, err := padd.Build(string(specBytes))
	if err != nil {
		cli.ReportError(os.Stderr, err, cli.DefaultWidth)
		return ExitBuildError
	}

	d, err := daemon.New(eng, *dbPath)
	if err != nil {
		cli.ReportError(os.Stderr, err, cli.DefaultWidth)
		return ExitIOError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("padd: daemon %s listening on %s\n", d.SessionID(), *listen)
	if err := d.Serve(ctx, *listen); err != nil {
		cli.ReportError(os.Stderr, err, cli.DefaultWidth)
		return ExitIOError
	}
	return ExitSuccess
}

func runKill(args []string, projectCfg cliconfig.Config) int {
	fs := pflag.NewFlagSet("kill", pflag.ContinueOnError)
	listen := fs.StringP("listen", "l", projectCfg.DaemonAddress, "daemon address to dial")
	if err := fs.Parse(args); err != nil {
		return ExitUsageError
	}
	if *listen == "" {
		*listen = daemon.DefaultAddress
	}

	if err := daemon.Kill(*listen); err != nil {
		cli.ReportError(os.Stderr, err, cli.DefaultWidth)
		return ExitIOError
	}
	fmt.Println("padd: daemon stopped")
	return ExitSuccess
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
