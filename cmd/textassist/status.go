package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/textassist/internal/logging"
	"go.klb.dev/textassist/internal/monitor"
)

func newStatusCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show what the daemon is doing",
		Long: `Displays the running daemon's polling state, the clipboard text it last saw
and counters for the current session.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runStatus(v) },
	}

	f := cmd.Flags()
	f.Bool("json", false, "output raw JSON")
	addSocketFlag(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runStatus(v *viper.Viper) error {
	client, err := dialDaemon(v.GetString("socket"))
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := withTimeout(requestTimeout)
	defer cancel()
	resp, err := client.Status(ctx)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	if v.GetBool("json") {
		enc, _ := json.MarshalIndent(resp.Status, "", "  ")
		fmt.Println(string(enc))
		return nil
	}
	printStatus(resp.Status)
	return nil
}

func printStatus(st monitor.Status) {
	w := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	fmt.Fprintf(w, "State:\t%s\n", st.State)
	fmt.Fprintf(w, "Reader:\t%s\n", st.Reader)
	if !st.StartedAt.IsZero() {
		fmt.Fprintf(w, "Started:\t%s (%s)\n", st.StartedAt.Format(time.RFC3339), fmtAge(st.StartedAt))
	}
	fmt.Fprintf(w, "Interval:\t%s\n", st.Interval)
	fmt.Fprintf(w, "Language:\t%s\n", st.Language)
	fmt.Fprintf(w, "Panel:\t%s\n", panelState(st))
	if st.Snapshot != "" {
		fmt.Fprintf(w, "Clipboard:\t%q (%s)\n", logging.Preview(st.Snapshot), fmtAge(st.SnapshotAt))
	} else {
		fmt.Fprintf(w, "Clipboard:\t-\n")
	}
	fmt.Fprintf(w, "Counters:\t%d polls, %d panels, %d actions\n", st.Ticks, st.Shows, st.Actions)
	if st.LastError != "" {
		fmt.Fprintf(w, "Last error:\t%s\n", st.LastError)
	}
	_ = w.Flush()
}

func panelState(st monitor.Status) string {
	if st.PanelVisible {
		return "visible"
	}
	if st.ShownFor != "" {
		return fmt.Sprintf("hidden (already offered %q)", logging.Preview(st.ShownFor))
	}
	return "hidden"
}

func fmtAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	age := time.Since(t).Round(time.Second)
	if age < time.Minute {
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	}
	if age < time.Hour {
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	}
	return t.Format("15:04:05")
}
