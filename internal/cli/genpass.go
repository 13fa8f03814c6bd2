// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sealvault/sealvault/errs"
	"github.com/sealvault/sealvault/generator/password"
)

func newGenPassCommand() *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "genpass",
		Short: "Generate a strong passphrase suitable for use with encrypt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			generate, err := genpassProfile(profile)
			if err != nil {
				return err
			}

			pw, err := generate()
			if err != nil {
				return errs.NewUsageError(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), pw)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "strong", "password profile: paranoid|strong|no-symbol")

	return cmd
}

func genpassProfile(name string) (func() (string, error), error) {
	switch name {
	case "paranoid":
		return password.Paranoid, nil
	case "strong":
		return password.Strong, nil
	case "no-symbol":
		return password.NoSymbol, nil
	default:
		return nil, errs.NewUsageError(fmt.Errorf("unknown password profile %q", name))
	}
}
