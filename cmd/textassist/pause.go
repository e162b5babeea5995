package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/textassist/internal/control"
)

func newPauseCmd() *cobra.Command {
	return newToggleCmd("pause", "Stop offering actions until resumed",
		func(ctx context.Context, c *control.Client) (*control.StatusResponse, error) { return c.Pause(ctx) })
}

func newResumeCmd() *cobra.Command {
	return newToggleCmd("resume", "Start offering actions again",
		func(ctx context.Context, c *control.Client) (*control.StatusResponse, error) { return c.Resume(ctx) })
}

func newToggleCmd(use, short string, call func(context.Context, *control.Client) (*control.StatusResponse, error)) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(_ *cobra.Command, _ []string) error {
			client, err := dialDaemon(v.GetString("socket"))
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := withTimeout(requestTimeout)
			defer cancel()
			resp, err := call(ctx, client)
			if err != nil {
				return fmt.Errorf("%s: %w", use, err)
			}
			fmt.Printf("clipboard monitor %s\n", resp.Status.State)
			return nil
		},
	}

	addSocketFlag(cmd)
	addConfigFlag(cmd)

	return cmd
}
