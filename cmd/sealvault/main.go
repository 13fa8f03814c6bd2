// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

// Command sealvault encrypts and decrypts files and directories into the
// streaming .svlt AEAD container format.
package main

import (
	"os"

	"github.com/sealvault/sealvault/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
