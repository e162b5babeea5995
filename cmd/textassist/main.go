// textassist: clipboard text actions for the Linux desktop.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/textassist/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "textassist",
		Short: "Translate, summarize and reformat clipboard text",
		Long: `textassist watches the clipboard and offers AI actions on new text:
translate, summarize, or improve formatting. It can also capture the screen
and extract text from it with OCR.

Run "textassist run" to start the daemon. The other commands talk to the
running daemon over a local socket, or work on their own where they can.

Config file search order (first found wins):
  /etc/textassist/textassist.toml
  $HOME/.config/textassist/textassist.toml
  path supplied via --config

All flags can be set via TEXTASSIST_<FLAG> env vars (dashes become
underscores) or config-file keys.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newRunCmd(),
		newActCmd(),
		newCaptureCmd(),
		newStatusCmd(),
		newHistoryCmd(),
		newPauseCmd(),
		newResumeCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("textassist %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(interactive bool, formatStr, levelStr string) {
	format := logging.ParseFormat(formatStr)
	level := logging.ParseLevel(levelStr)
	if levelStr == "" {
		if interactive {
			level = logging.ParseLevel("debug")
		} else {
			level = logging.ParseLevel("info")
		}
	}
	logging.Setup(format, level)
}
