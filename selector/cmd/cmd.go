// Package cmd has the cuepick command line interface.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"go.ntppool.org/common/logger"
	"go.ntppool.org/common/version"

	"github.com/JonSchram/subtitleedit/cue"
)

// Cmd is the root command structure for CLI integration
type Cmd struct {
	Config kong.ConfigFlag `help:"JSON file with flag defaults"`

	Select  SelectCmd  `cmd:"" help:"select the cues to show for a visible range"`
	Stats   StatsCmd   `cmd:"" help:"report how evenly the selected cues cover the visible range"`
	Watch   WatchCmd   `cmd:"" help:"re-run the selection whenever the file changes"`
	Version VersionCmd `cmd:"" help:"print version and build information"`
}

// Timestamp is a flag value in milliseconds. It accepts HH:MM:SS,mmm or a
// plain number of milliseconds.
type Timestamp int64

// UnmarshalText implements encoding.TextUnmarshaler for kong
func (ts *Timestamp) UnmarshalText(b []byte) error {
	s := string(b)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*ts = Timestamp(ms)
		return nil
	}
	ms, err := cue.ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = Timestamp(ms)
	return nil
}

func (ts Timestamp) String() string {
	return cue.FormatTimestamp(int64(ts))
}

// SelectionFlags are shared by every command that runs a selection
type SelectionFlags struct {
	File         string    `arg:"" help:"subtitle file (.srt or .json)" type:"path"`
	VisibleStart Timestamp `default:"0" help:"start of the visible range (HH:MM:SS,mmm or ms)"`
	VisibleEnd   Timestamp `required:"" help:"end of the visible range (HH:MM:SS,mmm or ms)"`
	Margin       float64   `default:"10" help:"seconds added to both sides of the visible range"`
	Limit        int       `default:"50" help:"maximum number of cues to show"`
	Verbose      bool      `short:"v" help:"enable verbose debug logging"`

	out io.Writer
}

// logger returns the context logger, switched to debug level when verbose
func (f *SelectionFlags) logger(ctx context.Context) (context.Context, *slog.Logger) {
	log := logger.FromContext(ctx)
	if f.Verbose {
		debugHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		log = slog.New(debugHandler)
		ctx = logger.NewContext(ctx, log)
	}
	return ctx, log
}

func (f *SelectionFlags) writer() io.Writer {
	if f.out == nil {
		return os.Stdout
	}
	return f.out
}

// VersionCmd prints the build version
type VersionCmd struct {
	out io.Writer
}

func (cmd *VersionCmd) Run() error {
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	_, err := fmt.Fprintf(out, "cuepick %s\n", version.Version())
	return err
}
