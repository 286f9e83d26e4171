// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newEventsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Read and prune the event log",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "Show the most recent events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, defaultTimeout, func(ctx context.Context, a *app) error {
				events, err := a.events.ListRecent(ctx, limit)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), events)
			})
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", 50, "number of events")

	var olderThan time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete events older than --older-than",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, defaultTimeout, func(ctx context.Context, a *app) error {
				n, err := a.events.DeleteOldEvents(ctx, olderThan)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d events deleted\n", n)
				return err
			})
		},
	}
	prune.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "age threshold")

	cmd.AddCommand(list, prune)
	return cmd
}
