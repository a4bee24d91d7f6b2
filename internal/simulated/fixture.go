// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package simulated provides an in process chain for tests.
//
// Every test builds its own Fixture, so state never leaks between tests.
package simulated

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	sim "github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"
)

var InitialBalance = new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(params.Ether))

// Client is a simulated chain client that seals a block as soon as a
// transaction is accepted, the way a development node automines.
type Client struct {
	sim.Client
	backend *sim.Backend
}

func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	c.backend.Commit()
	return nil
}

type Fixture struct {
	Backend *sim.Backend
	Client  *Client
	ChainID *big.Int

	OwnerKey     *ecdsa.PrivateKey
	Owner        common.Address
	OtherKey     *ecdsa.PrivateKey
	OtherAccount common.Address
}

// NewFixture starts a simulated chain with two funded accounts
func NewFixture(t testing.TB) *Fixture {
	t.Helper()
	ownerKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	otherKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	owner := crypto.PubkeyToAddress(ownerKey.PublicKey)
	other := crypto.PubkeyToAddress(otherKey.PublicKey)

	backend := sim.NewBackend(types.GenesisAlloc{
		owner: {Balance: InitialBalance},
		other: {Balance: InitialBalance},
	})
	t.Cleanup(func() {
		_ = backend.Close()
	})
	// genesis has timestamp 0, move to wall clock time
	backend.Commit()

	client := &Client{Client: backend.Client(), backend: backend}
	chainID, err := client.ChainID(context.Background())
	require.NoError(t, err)
	return &Fixture{
		Backend:      backend,
		Client:       client,
		ChainID:      chainID,
		OwnerKey:     ownerKey,
		Owner:        owner,
		OtherKey:     otherKey,
		OtherAccount: other,
	}
}

// TransactOpts returns signing options for [key]
func (f *Fixture) TransactOpts(t testing.TB, key *ecdsa.PrivateKey) *bind.TransactOpts {
	t.Helper()
	opts, err := bind.NewKeyedTransactorWithChainID(key, f.ChainID)
	require.NoError(t, err)
	opts.Context = context.Background()
	return opts
}

// Latest returns the timestamp of the latest block
func (f *Fixture) Latest(t testing.TB) uint64 {
	t.Helper()
	header, err := f.Client.HeaderByNumber(context.Background(), nil)
	require.NoError(t, err)
	return header.Time
}

// IncreaseTime seals a new block [d] after the latest one.
// Later blocks keep building on top of the shifted time.
func (f *Fixture) IncreaseTime(t testing.TB, d time.Duration) {
	t.Helper()
	require.NoError(t, f.Backend.AdjustTime(d))
}

// DeployAccount deploys a minimal ERC725X account owned by [controller]
func (f *Fixture) DeployAccount(t testing.TB, controller *ecdsa.PrivateKey) common.Address {
	t.Helper()
	addr, tx, _, err := bind.DeployContract(
		f.TransactOpts(t, controller),
		abi.ABI{},
		AccountBytecode(),
		f.Client,
	)
	require.NoError(t, err)
	receipt, err := bind.WaitMined(context.Background(), f.Client, tx)
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	return addr
}
