// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package main

import (
	"github.com/lukso-whitelist/whitelist-deployer/cmd"
)

func main() {
	cmd.Execute()
}
