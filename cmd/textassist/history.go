package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/textassist/internal/logging"
	"go.klb.dev/textassist/internal/session"
)

func newHistoryCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the actions run by the daemon",
		Long: `Lists the actions the running daemon has finished this session, newest
first. History is kept in memory only and is lost when the daemon exits.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runHistory(v) },
	}

	f := cmd.Flags()
	f.Int("limit", 20, "maximum number of entries (0 for all)")
	f.Bool("json", false, "output raw JSON")
	addSocketFlag(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runHistory(v *viper.Viper) error {
	client, err := dialDaemon(v.GetString("socket"))
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := withTimeout(requestTimeout)
	defer cancel()
	resp, err := client.History(ctx, v.GetInt("limit"))
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}

	if v.GetBool("json") {
		enc, _ := json.MarshalIndent(resp.Entries, "", "  ")
		fmt.Println(string(enc))
		return nil
	}
	printHistory(resp.Entries)
	return nil
}

func printHistory(entries []session.Entry) {
	if len(entries) == 0 {
		fmt.Println("No actions yet.")
		return
	}
	tw := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "WHEN\tSOURCE\tTITLE\tTOOK\tINPUT\tRESULT\n")
	_, _ = fmt.Fprintf(tw, "----\t------\t-----\t----\t-----\t------\n")
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			fmtAge(e.StartedAt), e.Source, e.Title, fmtElapsed(e.Duration),
			logging.Preview(e.Input), entryResult(e),
		)
	}
	_ = tw.Flush()
}

func entryResult(e session.Entry) string {
	switch {
	case e.Cancelled:
		return "(cancelled)"
	case e.Error != "":
		return "error: " + e.Error
	default:
		return logging.Preview(e.Output)
	}
}
