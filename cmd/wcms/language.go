// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/olegiv/wcms-go/internal/service"
)

func newLanguageCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "language",
		Aliases: []string{"lang"},
		Short:   "Manage the languages of a website",
	}
	cmd.AddCommand(
		newLanguageAddCmd(flags),
		newLanguageListCmd(flags),
		newLanguageUpdateCmd(flags),
		newLanguageSubSectionCmd(flags, true),
		newLanguageSubSectionCmd(flags, false),
	)
	return cmd
}

func newLanguageAddCmd(flags *globalFlags) *cobra.Command {
	var (
		in       service.CreateLanguageInput
		inactive bool
	)
	cmd := &cobra.Command{
		Use:   "add WEBSITE_ID CODE NAME",
		Short: "Add a language to a website",
		Example: `  wcms language add 0b7e... de Deutsch
  wcms language add 0b7e... pt-BR "Português (Brasil)" --sub-section 5f1c...`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.WebsiteID, in.Code, in.Name = args[0], args[1], args[2]
			if inactive {
				in.IsActive = new(bool)
			}
			return withApp(flags, defaultTimeout, func(ctx context.Context, a *app) error {
				lang, err := a.languages.Create(ctx, in)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), lang)
			})
		},
	}
	cmd.Flags().StringSliceVar(&in.SubSections, "sub-section", nil, "associated sub-section id (repeatable)")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the language inactive")
	return cmd
}

func newLanguageListCmd(flags *globalFlags) *cobra.Command {
	var activeOnly bool
	cmd := &cobra.Command{
		Use:   "list WEBSITE_ID",
		Short: "List the languages of a website",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, defaultTimeout, func(ctx context.Context, a *app) error {
				langs, err := a.languages.List(ctx, args[0], activeOnly)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), langs)
			})
		},
	}
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active languages")
	return cmd
}

func newLanguageUpdateCmd(flags *globalFlags) *cobra.Command {
	var (
		name, code string
		active     bool
	)
	cmd := &cobra.Command{
		Use:   "update LANGUAGE_ID",
		Short: "Change the name, code or active flag of a language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in service.UpdateLanguageInput
			if cmd.Flags().Changed("name") {
				in.Name = &name
			}
			if cmd.Flags().Changed("code") {
				in.Code = &code
			}
			if cmd.Flags().Changed("active") {
				in.IsActive = &active
			}
			return withApp(flags, defaultTimeout, func(ctx context.Context, a *app) error {
				lang, err := a.languages.Update(ctx, args[0], in)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), lang)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&code, "code", "", "language code")
	cmd.Flags().BoolVar(&active, "active", true, "active flag")
	return cmd
}

func newLanguageSubSectionCmd(flags *globalFlags, attach bool) *cobra.Command {
	use, short := "attach LANGUAGE_ID SUB_SECTION_ID", "Associate a sub-section with a language"
	if !attach {
		use, short = "detach LANGUAGE_ID SUB_SECTION_ID", "Remove a sub-section association"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, defaultTimeout, func(ctx context.Context, a *app) error {
				if attach {
					return a.languages.AttachSubSection(ctx, args[0], args[1])
				}
				return a.languages.DetachSubSection(ctx, args[0], args[1])
			})
		},
	}
}
