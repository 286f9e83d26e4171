// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/wcms-go/internal/cache"
)

func newCacheCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the translation cache",
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show cache backend and statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, defaultTimeout, func(_ context.Context, a *app) error {
				return printJSON(cmd.OutOrStdout(), struct {
					Info  cache.Info  `json:"info"`
					Stats cache.Stats `json:"stats"`
				}{a.cache.Info(), a.cache.Stats()})
			})
		},
	}

	var pattern string
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached entries",
		Example: `  wcms cache clear
  wcms cache clear --pattern 'tr:language:*'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, defaultTimeout, func(ctx context.Context, a *app) error {
				if pattern == "" {
					if err := a.cache.ClearAll(ctx); err != nil {
						return err
					}
					_, err := fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
					return err
				}
				n, err := a.cache.ClearPattern(ctx, pattern)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d keys deleted\n", n)
				return err
			})
		},
	}
	clearCmd.Flags().StringVar(&pattern, "pattern", "", "glob pattern of keys to delete (default: everything)")

	cmd.AddCommand(stats, clearCmd)
	return cmd
}
