// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package main

import "github.com/scc-digitalhub/iadea-cli-sdk/cmd"

func main() {
	cmd.Execute()
}
