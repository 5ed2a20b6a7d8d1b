package rootcmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

// Run parses the command line into cmd and runs the selected command. Flag
// defaults may come from JSON config files (first found wins) and from
// environment variables named after envPrefix. Spans are exported when the
// OTLP environment variables are set.
func Run(cmd any, name, description, envPrefix string, configPaths ...string) {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer cancel()

	parser, err := kong.New(cmd,
		kong.Name(name),
		kong.Description(description),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Configuration(kong.JSON, configPaths...),
		kong.DefaultEnvars(envPrefix),
		kong.ConfigureHelp(kong.HelpOptions{
			Tree: true,
		}),
		kong.UsageOnError(),
	)
	if err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		parser.FatalIfErrorf(err)
	}

	shutdown, err := InitTracing(ctx, name)
	if err != nil {
		log.Printf("tracing disabled: %v", err)
		shutdown = func(context.Context) error { return nil }
	}

	err = kctx.Run()

	// the parent context is done after a signal; still flush pending spans
	if serr := shutdown(context.WithoutCancel(ctx)); serr != nil {
		log.Printf("trace provider shutdown: %v", serr)
	}

	parser.FatalIfErrorf(err)
}
