// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olegiv/wcms-go/internal/service"
	"github.com/olegiv/wcms-go/internal/transfer"
)

func newTranslationCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "translation",
		Aliases: []string{"tr"},
		Short:   "Manage translations",
	}
	cmd.AddCommand(
		newTranslationCreateCmd(flags),
		newTranslationGetCmd(flags),
		newTranslationListCmd(flags),
		newTranslationUpdateCmd(flags),
		newTranslationDeleteCmd(flags),
		newTranslationImportCmd(flags),
		newTranslationExportCmd(flags),
	)
	return cmd
}

func parseMetadata(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	m := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, &service.ValidationError{Field: "metadata", Message: "must be a JSON object: " + err.Error()}
	}
	return m, nil
}

func newTranslationCreateCmd(flags *globalFlags) *cobra.Command {
	var (
		metadata string
		inactive bool
	)
	cmd := &cobra.Command{
		Use:   "create ELEMENT_ID LANGUAGE_ID CONTENT",
		Short: "Create the translation of a content element in a language",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := parseMetadata(metadata)
			if err != nil {
				return err
			}
			in := service.CreateTranslationInput{
				ContentElementID: args[0],
				LanguageID:       args[1],
				Content:          args[2],
				Metadata:         meta,
			}
			if inactive {
				in.IsActive = new(bool)
			}
			return withApp(flags, defaultTimeout, func(ctx context.Context, a *app) error {
				tr, err := a.translations.Create(ctx, in)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), tr)
			})
		},
	}
	cmd.Flags().StringVar(&metadata, "metadata", "", "metadata as a JSON object")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the translation inactive")
	return cmd
}

func newTranslationGetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get (TRANSLATION_ID | ELEMENT_ID LANGUAGE_ID)",
		Short: "Show a translation by id or by content element and language",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, defaultTimeout, func(ctx context.Context, a *app) error {
				var tr any
				var err error
				if len(args) == 1 {
					tr, err = a.translations.GetByID(ctx, args[0])
				} else {
					tr, err = a.translations.Get(ctx, args[0], args[1])
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), tr)
			})
		},
	}
}

func newTranslationListCmd(flags *globalFlags) *cobra.Command {
	var (
		elementID, languageID string
		activeOnly            bool
	)
	cmd := &cobra.Command{
		Use:   "list (--element ID | --language ID)",
		Short: "List the translations of a content element or of a language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (elementID == "") == (languageID == "") {
				return errors.New("exactly one of --element and --language is required")
			}
			return withApp(flags, defaultTimeout, func(ctx context.Context, a *app) error {
				var list any
				var err error
				if elementID != "" {
					list, err = a.translations.ListByContentElement(ctx, elementID, activeOnly)
				} else {
					list, err = a.translations.ListByLanguage(ctx, languageID, activeOnly)
				}
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), list)
			})
		},
	}
	cmd.Flags().StringVar(&elementID, "element", "", "content element id")
	cmd.Flags().StringVar(&languageID, "language", "", "language id")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active translations")
	return cmd
}

func newTranslationUpdateCmd(flags *globalFlags) *cobra.Command {
	var (
		content, languageID, elementID, metadata string
		active                                   bool
	)
	cmd := &cobra.Command{
		Use:   "update TRANSLATION_ID",
		Short: "Change fields of a translation",
		Long: `Change fields of a translation. Only the flags given are applied.
--metadata '{}' clears the metadata.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in service.UpdateTranslationInput
			if cmd.Flags().Changed("content") {
				in.Content = &content
			}
			if cmd.Flags().Changed("language") {
				in.LanguageID = &languageID
			}
			if cmd.Flags().Changed("element") {
				in.ContentElementID = &elementID
			}
			if cmd.Flags().Changed("active") {
				in.IsActive = &active
			}
			if cmd.Flags().Changed("metadata") {
				meta, err := parseMetadata(metadata)
				if err != nil {
					return err
				}
				if meta == nil {
					meta = map[string]any{}
				}
				in.Metadata = meta
			}
			return withApp(flags, defaultTimeout, func(ctx context.Context, a *app) error {
				tr, err := a.translations.Update(ctx, args[0], in)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), tr)
			})
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "translated content")
	cmd.Flags().StringVar(&languageID, "language", "", "move to this language")
	cmd.Flags().StringVar(&elementID, "element", "", "move to this content element")
	cmd.Flags().BoolVar(&active, "active", true, "active flag")
	cmd.Flags().StringVar(&metadata, "metadata", "", "replace metadata with this JSON object")
	return cmd
}

func newTranslationDeleteCmd(flags *globalFlags) *cobra.Command {
	var hard bool
	cmd := &cobra.Command{
		Use:   "delete TRANSLATION_ID",
		Short: "Deactivate a translation, or remove it with --hard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, defaultTimeout, func(ctx context.Context, a *app) error {
				return a.translations.Delete(ctx, args[0], hard)
			})
		},
	}
	cmd.Flags().BoolVar(&hard, "hard", false, "remove the row")
	return cmd
}

func newTranslationImportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Insert or update translations from a .json, .yaml or .yml file",
		Long: `Insert or update translations from a file in one transaction.

Items with errors are reported and skipped; the rest are committed. When no
item can be applied nothing is written and the command fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, importTimeout, func(ctx context.Context, a *app) error {
				importer := transfer.NewImporter(a.translations, a.logger)
				res, err := importer.ImportFile(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newTranslationExportCmd(flags *globalFlags) *cobra.Command {
	var output, format string
	cmd := &cobra.Command{
		Use:   "export LANGUAGE_ID",
		Short: "Write the translations of a language as an importable file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, importTimeout, func(ctx context.Context, a *app) error {
				exporter := transfer.NewExporter(a.translations, a.logger)
				if output != "" {
					if err := exporter.ExportLanguageToFile(ctx, args[0], output); err != nil {
						return err
					}
					_, err := fmt.Fprintln(cmd.ErrOrStderr(), "exported to", output)
					return err
				}
				f, err := transfer.ParseFormat(format)
				if err != nil {
					return err
				}
				return exporter.ExportLanguage(ctx, args[0], cmd.OutOrStdout(), f)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file; the format follows its extension")
	cmd.Flags().StringVar(&format, "format", "json", "stdout format: json or yaml")
	return cmd
}
