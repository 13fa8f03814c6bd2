// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sealvault/sealvault/fileop"
)

func newDecryptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt <input.svlt> <output> <password>",
		Short: "Decrypt a .svlt container",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputFile, outputFile, password := args[0], args[1], args[2]

			if err := fileop.DecryptFile(inputFile, outputFile, []byte(password)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "decrypted %s -> %s\n", inputFile, outputFile)
			return nil
		},
	}
}
