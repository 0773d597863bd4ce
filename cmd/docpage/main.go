package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docpage/cmd/docpage/commands"
	"git.home.luguber.info/inful/docpage/internal/foundation/errors"
	"git.home.luguber.info/inful/docpage/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run parses args, executes the selected command and maps its error to an
// exit code.
func run(args []string) int {
	cli := &commands.CLI{}
	global := &commands.Global{Out: os.Stdout}

	parser, err := kong.New(cli,
		kong.Name("docpage"),
		kong.Description("Resolve, compile and serve documentation pages stored in source-control repositories."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return 1
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		parser.FatalIfErrorf(err)
	}

	adapter := errors.NewCLIErrorAdapter(cli.Verbose, global.Logger)
	if err := kctx.Run(global, cli); err != nil {
		if cli.Verbose {
			adapter.Log(err)
		}
		_, _ = fmt.Fprintln(os.Stderr, adapter.FormatError(err))
		return adapter.ExitCodeFor(err)
	}
	return 0
}
