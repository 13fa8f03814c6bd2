// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package cli wires the sealvault command-line surface: encrypt, decrypt,
// encrypt-folder, decrypt-folder, and the genpass convenience command.
//
// log.SetFactory is called once, from the root command's
// PersistentPreRunE, before any package logs anything.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sealvault/sealvault/config"
	"github.com/sealvault/sealvault/errs"
	"github.com/sealvault/sealvault/log"
)

// Process exit codes: 0 success, 1 generic failure, 2 usage error.
const (
	ExitSuccess    = 0
	ExitFailure    = 1
	ExitUsageError = 2
)

// NewRootCommand builds the sealvault command tree. configPath and verbose
// are local to this call (not package-level) so that two command trees
// built and executed concurrently — as the test suite does — never share
// mutable flag storage.
func NewRootCommand() *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	loadOptionsFromConfig := func() (config.Profile, error) {
		if configPath == "" {
			return config.Default(), nil
		}
		return config.Load(configPath)
	}

	root := &cobra.Command{
		Use:           "sealvault",
		Short:         "Streaming AEAD file encryption",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl := log.InfoLevel
			if verbose {
				lvl = log.DebugLevel
			}
			log.SetFactory(log.NewStderrFactory(lvl))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML tuning profile")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	root.AddCommand(
		newEncryptCommand(loadOptionsFromConfig),
		newDecryptCommand(),
		newEncryptFolderCommand(loadOptionsFromConfig),
		newDecryptFolderCommand(),
		newGenPassCommand(),
	)

	return root
}

// Execute runs the command tree and returns the process exit code
// appropriate to whatever error (if any) it produced.
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// describe renders a single human-readable line naming the error kind.
// It never includes key, password, or derived key material, none of
// which any error type here carries.
func describe(err error) string {
	switch err.(type) {
	case *errs.FormatError:
		return fmt.Sprintf("error (format): %s", err)
	case *errs.IntegrityError:
		return fmt.Sprintf("error (integrity): %s", err)
	case *errs.KdfError:
		return fmt.Sprintf("error (kdf): %s", err)
	case *errs.IoError:
		return fmt.Sprintf("error (io): %s", err)
	case *errs.PathError:
		return fmt.Sprintf("error (path): %s", err)
	case *errs.UsageError:
		return fmt.Sprintf("error (usage): %s", err)
	default:
		return fmt.Sprintf("error: %s", err)
	}
}

// exitCodeFor maps an error kind to a process exit code. Anything that
// is not a recognized errs kind (argument-count errors cobra itself
// raises, for instance) is treated as a usage error.
func exitCodeFor(err error) int {
	switch err.(type) {
	case *errs.UsageError:
		return ExitUsageError
	case *errs.FormatError, *errs.IntegrityError, *errs.KdfError, *errs.IoError, *errs.PathError:
		return ExitFailure
	default:
		return ExitUsageError
	}
}
