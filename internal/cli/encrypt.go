// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sealvault/sealvault/aead"
	"github.com/sealvault/sealvault/config"
	"github.com/sealvault/sealvault/fileop"
)

func newEncryptCommand(loadOptionsFromConfig func() (config.Profile, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt <input_file> <output.svlt> <password> [algorithm]",
		Short: "Encrypt a single file into a .svlt container",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputFile, outputFile, password := args[0], args[1], args[2]

			profile, err := loadOptionsFromConfig()
			if err != nil {
				return err
			}
			alg, chunkSize, params, err := profile.ToEncryptOptions()
			if err != nil {
				return err
			}

			if len(args) == 4 {
				alg, err = aead.ParseAlgorithm(args[3])
				if err != nil {
					return err
				}
			}

			opts := fileop.EncryptOptions{
				Algorithm: alg,
				ChunkSize: chunkSize,
				KDFParams: params,
			}

			if err := fileop.EncryptFile(inputFile, outputFile, []byte(password), opts); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "encrypted %s -> %s\n", inputFile, outputFile)
			return nil
		},
	}
}
