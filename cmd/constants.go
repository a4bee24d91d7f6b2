// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cmd

const (
	logLevelFlag = "log-level"
	envFileFlag  = "env-file"

	nativeTokenSymbol   = "LYXt"
	nativeTokenDecimals = 18
)
