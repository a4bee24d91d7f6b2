// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package evm

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestNewSignerFromPrivateKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	keyHex := hex.EncodeToString(crypto.FromECDSA(key))
	expected := crypto.PubkeyToAddress(key.PublicKey)

	for _, s := range []string{keyHex, "0x" + keyHex, "0X" + keyHex} {
		signer, err := NewSignerFromPrivateKey(s)
		require.NoError(t, err)
		require.Equal(t, expected, signer.Address())
	}

	for _, s := range []string{"", "0x", "not hex", keyHex[:10]} {
		_, err := NewSignerFromPrivateKey(s)
		require.ErrorContains(t, err, "invalid private key")
	}
}

func TestSignerSignTx(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := NewSigner(key)
	chainID := big.NewInt(4201)

	to := common.HexToAddress("0x01")
	tx, err := signer.SignTx(types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		To:        &to,
		Gas:       21_000,
		GasFeeCap: big.NewInt(1),
		GasTipCap: big.NewInt(1),
	}), chainID)
	require.NoError(t, err)
	sender, err := types.Sender(types.LatestSignerForChainID(chainID), tx)
	require.NoError(t, err)
	require.Equal(t, signer.Address(), sender)
}
