// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command wcms manages websites, languages, content elements and their
// translations.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/olegiv/wcms-go/internal/service"
	"github.com/olegiv/wcms-go/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// Exit codes by error kind.
const (
	exitError      = 1
	exitValidation = 2
	exitNotFound   = 3
	exitConflict   = 4
	exitRetryable  = 75 // EX_TEMPFAIL
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		printItemErrors(err)
		os.Exit(exitCode(err))
	}
}

type globalFlags struct {
	envFile  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}

	root := &cobra.Command{
		Use:   "wcms",
		Short: "Website content translations: languages, content elements and bulk upserts",
		Long: `wcms manages the translations of a multi-tenant website CMS.

Configuration is read from WCMS_* environment variables, optionally loaded
from a .env file. Translations can be created one by one or imported in
bulk from JSON or YAML files.`,
		Version:       info.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "load environment variables from this file (default: .env if present)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override WCMS_LOG_LEVEL (debug, info, warn, error)")

	root.AddCommand(
		newMigrateCmd(flags),
		newWebsiteCmd(flags),
		newLanguageCmd(flags),
		newElementCmd(flags),
		newTranslationCmd(flags),
		newCacheCmd(flags),
		newEventsCmd(flags),
	)
	return root
}

func exitCode(err error) int {
	switch {
	case service.IsValidation(err):
		return exitValidation
	case service.IsNotFound(err):
		return exitNotFound
	case service.IsConflict(err):
		return exitConflict
	case service.IsRetryable(err):
		return exitRetryable
	default:
		return exitError
	}
}

func printItemErrors(err error) {
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	for _, item := range verr.Items {
		_, _ = fmt.Fprintf(os.Stderr, "  item %d: %s\n", item.Index, item.Message)
	}
}
