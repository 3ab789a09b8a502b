// Command glreplay replays a TOML scenario of bind, attach and upload steps
// against a gl.API and reports how many native calls the binding cache
// saved.
//
// Usage:
//
//	glreplay example > frame.toml
//	glreplay run frame.toml
//	glreplay run --no-cache --check frame.toml
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/urfave/cli/v2"

	"github.com/gogpu/gles"
	"github.com/gogpu/gles/backend"
	"github.com/gogpu/gles/gl"
	"github.com/gogpu/gles/gltest"
)

func init() {
	backend.Register(backend.Fake, func() (gl.API, error) {
		return gltest.New(), nil
	})
}

var (
	noCacheFlag = &cli.BoolFlag{
		Name:  "no-cache",
		Usage: "replay only in pass-through mode",
	}
	checkFlag = &cli.BoolFlag{
		Name:  "check",
		Usage: "cross-check every cached binding against the backend",
	}
	backendFlag = &cli.StringFlag{
		Name:  "backend",
		Usage: "registered backend to replay on",
		Value: backend.Fake,
	}
	verboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "log every bind to stderr",
	}
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "write the scenario to `FILE` instead of stdout",
	}
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "glreplay",
		Usage: "measure native GL calls saved by the gles binding cache",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "replay a scenario with and without the binding cache",
				ArgsUsage: "scenario.toml",
				Flags:     []cli.Flag{noCacheFlag, checkFlag, backendFlag, verboseFlag},
				Action:    runScenario,
			},
			{
				Name:   "example",
				Usage:  "print a sample scenario",
				Flags:  []cli.Flag{outputFlag},
				Action: writeExample,
			},
			{
				Name:   "backends",
				Usage:  "list registered backends",
				Action: listBackends,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "glreplay:", err)
		os.Exit(1)
	}
}

func newLogger(ctx *cli.Context) *slog.Logger {
	level := slog.LevelWarn
	if ctx.Bool(verboseFlag.Name) {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(ctx.App.ErrWriter, &slog.HandlerOptions{Level: level}))
}

func runScenario(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("run needs exactly one scenario file")
	}
	name := ctx.String(backendFlag.Name)
	if !backend.IsRegistered(name) {
		return fmt.Errorf("%w: %q (have %v)", backend.ErrBackendNotAvailable, name, backend.Available())
	}
	s, err := LoadScenario(ctx.Args().First())
	if err != nil {
		return err
	}
	log := newLogger(ctx)

	common := []gles.Option{gles.WithBackendName(name)}
	if ctx.Bool(checkFlag.Name) {
		common = append(common, gles.WithCoherencyCheck())
	}

	modes := []struct {
		label string
		opts  []gles.Option
	}{
		{"cached", nil},
		{"uncached", []gles.Option{gles.WithoutCache()}},
	}
	if ctx.Bool(noCacheFlag.Name) {
		modes = modes[1:]
	}

	var runs []run
	for _, m := range modes {
		api, err := backend.Open(name)
		if err != nil {
			return err
		}
		res, err := Replay(api, s, log, slices.Concat(common, m.opts)...)
		if err != nil {
			return fmt.Errorf("%s replay: %w", m.label, err)
		}
		runs = append(runs, run{label: m.label, result: res})
	}

	w := ctx.App.Writer
	fmt.Fprintf(w, "scenario %q on %s\n", s.Name, name)
	writeCalls(w, runs)
	writeStats(w, runs)
	if len(runs) == 2 {
		if n, ok := saved(runs[0].result, runs[1].result); ok {
			fmt.Fprintf(w, "binding cache saved %d native calls\n", n)
		}
	}
	return nil
}

func writeExample(ctx *cli.Context) error {
	w := ctx.App.Writer
	if path := ctx.String(outputFlag.Name); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return exampleScenario().Encode(w)
}

func listBackends(ctx *cli.Context) error {
	for _, name := range backend.Available() {
		fmt.Fprintln(ctx.App.Writer, name)
	}
	return nil
}
