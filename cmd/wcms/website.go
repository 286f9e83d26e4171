// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newWebsiteCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "website",
		Short: "Manage websites",
	}

	var slug string
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a website",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, defaultTimeout, func(ctx context.Context, a *app) error {
				w, err := a.websites.Create(ctx, args[0], slug)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), w)
			})
		},
	}
	create.Flags().StringVar(&slug, "slug", "", "URL slug (derived from the name when empty)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List websites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, defaultTimeout, func(ctx context.Context, a *app) error {
				sites, err := a.websites.List(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), sites)
			})
		},
	}

	cmd.AddCommand(create, list)
	return cmd
}
