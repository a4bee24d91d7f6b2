// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

const (
	DefaultPerms755 = 0o755

	BaseDirName = ".whitelist-deployer"
	LogDir      = "logs"
	LogFileName = "whitelist-deployer.log"

	// log rotation, in MB / files / days
	MaxLogFileSize   = 4
	MaxNumOfLogFiles = 5
	RetainOldFiles   = 0

	DefaultLogLevel = "ERROR"

	// LUKSO testnet public gateway
	LuksoTestnetRPCURL = "https://rpc.testnet.lukso.gateway.fm"

	DefaultEnvFile = ".env"

	PrivateKeyEnvVarName     = "PRIVATE_KEY"
	AccountAddressEnvVarName = "UP_ADDR"
	RPCURLEnvVarName         = "RPC_URL"
	LogLevelEnvVarName       = "LOG_LEVEL"
)
