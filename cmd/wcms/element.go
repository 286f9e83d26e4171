// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olegiv/wcms-go/internal/model"
	"github.com/olegiv/wcms-go/internal/service"
)

func newElementCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "element",
		Short: "Manage content elements",
	}
	cmd.AddCommand(
		newElementAddCmd(flags),
		newElementListCmd(flags),
		newElementDeleteCmd(flags),
	)
	return cmd
}

func newElementAddCmd(flags *globalFlags) *cobra.Command {
	var in service.CreateContentElementInput
	cmd := &cobra.Command{
		Use:   "add PARENT_ID NAME",
		Short: "Add a content element to a sub-section",
		Long:  fmt.Sprintf("Add a content element to a sub-section.\n\nTypes: %s", strings.Join(model.ElementTypes, ", ")),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.ParentID, in.Name = args[0], args[1]
			return withApp(flags, defaultTimeout, func(ctx context.Context, a *app) error {
				el, err := a.elements.Create(ctx, in)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), el)
			})
		},
	}
	cmd.Flags().StringVar(&in.Type, "type", model.ElementTypeText, "element type")
	cmd.Flags().IntVar(&in.Order, "order", 0, "sort position within the sub-section")
	cmd.Flags().StringVar(&in.Media.ImageURL, "image-url", "", "image URL (image elements)")
	cmd.Flags().StringVar(&in.Media.VideoURL, "video-url", "", "video URL (video elements)")
	cmd.Flags().StringVar(&in.Media.FileURL, "file-url", "", "file URL (file elements)")
	cmd.Flags().StringVar(&in.Media.LinkURL, "link-url", "", "link URL (link elements)")
	return cmd
}

func newElementListCmd(flags *globalFlags) *cobra.Command {
	var activeOnly bool
	cmd := &cobra.Command{
		Use:   "list PARENT_ID",
		Short: "List the content elements of a sub-section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, defaultTimeout, func(ctx context.Context, a *app) error {
				els, err := a.elements.List(ctx, args[0], activeOnly)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), els)
			})
		},
	}
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active elements")
	return cmd
}

func newElementDeleteCmd(flags *globalFlags) *cobra.Command {
	var hard bool
	cmd := &cobra.Command{
		Use:   "delete ELEMENT_ID",
		Short: "Deactivate a content element, or remove it with --hard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, defaultTimeout, func(ctx context.Context, a *app) error {
				return a.elements.Delete(ctx, args[0], hard)
			})
		},
	}
	cmd.Flags().BoolVar(&hard, "hard", false, "remove the row (refused while translations exist)")
	return cmd
}
