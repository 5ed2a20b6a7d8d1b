package main

import (
	"github.com/MakeNowJust/heredoc"
	"go.ntppool.org/common/logger"

	basecmd "github.com/JonSchram/subtitleedit/cmd"
	"github.com/JonSchram/subtitleedit/selector/cmd"
)

func init() {
	logger.ConfigPrefix = "CUEPICK"
}

func main() {
	basecmd.Run(&cmd.Cmd{}, "cuepick", heredoc.Doc(`
		Choose which subtitle cues a timeline view should draw.

		cuepick keeps the cues near the visible range and spreads them over
		the timeline so they stack as little as possible. Flag defaults can be
		set in ~/.config/cuepick.json, ./cuepick.json or CUEPICK_* variables.
	`), "CUEPICK", "cuepick.json", "~/.config/cuepick.json")
}
