// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package evm

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/utils"
)

// Signer holds the secp256k1 key of an externally owned account
type Signer struct {
	key *ecdsa.PrivateKey
}

// parses [privateKey] as hex, with or without 0x prefix
func NewSignerFromPrivateKey(privateKey string) (*Signer, error) {
	key, err := crypto.HexToECDSA(utils.TrimHexa(privateKey))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &Signer{key: key}, nil
}

func NewSigner(key *ecdsa.PrivateKey) *Signer {
	return &Signer{key: key}
}

func (s *Signer) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// signs [tx] for [chainID] with the latest signer
func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("failure signing tx: %w", err)
	}
	return signedTx, nil
}
