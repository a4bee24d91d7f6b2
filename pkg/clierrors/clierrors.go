// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package clierrors

import "errors"

var (
	ErrMissingPrivateKey     = errors.New("PRIVATE_KEY is not set, export it or add it to the .env file")
	ErrInvalidPrivateKey     = errors.New("PRIVATE_KEY is not a valid secp256k1 hex private key")
	ErrMissingAccountAddress = errors.New("UP_ADDR is not set, export it or add it to the .env file")
	ErrInvalidAccountAddress = errors.New("UP_ADDR is not a valid hex address")
	ErrDeploymentReverted    = errors.New("deployment transaction reverted")
	ErrNoContractCode        = errors.New("no contract code found at the deployed address")
)
