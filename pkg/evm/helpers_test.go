// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package evm

import (
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestGetEventFromLogs(t *testing.T) {
	type parserResult struct {
		Value string
	}
	parser := func(log types.Log) (parserResult, error) {
		if string(log.Data) == "valid" {
			return parserResult{Value: "success"}, nil
		}
		return parserResult{}, errors.New("invalid log data")
	}
	tests := []struct {
		name        string
		logs        []*types.Log
		expectError bool
		expected    parserResult
	}{
		{
			name:        "empty logs",
			logs:        []*types.Log{},
			expectError: true,
		},
		{
			name: "no valid logs",
			logs: []*types.Log{
				{Data: []byte("invalid1")},
				{Data: []byte("invalid2")},
			},
			expectError: true,
		},
		{
			name: "valid log at start",
			logs: []*types.Log{
				{Data: []byte("valid")},
				{Data: []byte("invalid")},
			},
			expected: parserResult{Value: "success"},
		},
		{
			name: "valid log at end",
			logs: []*types.Log{
				{Data: []byte("invalid")},
				{Data: []byte("valid")},
			},
			expected: parserResult{Value: "success"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := GetEventFromLogs(tt.logs, parser)
			if tt.expectError {
				require.Error(t, err)
				require.Contains(t, err.Error(), "failed to find evm.parserResult event in receipt logs")
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.expected, event)
			}
		})
	}
}

func TestTransactionError(t *testing.T) {
	tx := types.NewTransaction(0, common.Address{}, nil, 0, nil, nil)
	tests := []struct {
		name          string
		tx            *types.Transaction
		err           error
		msg           string
		args          []interface{}
		shouldContain string
	}{
		{
			name:          "with transaction, without formatting",
			tx:            tx,
			err:           errors.New("test error"),
			msg:           "test message",
			shouldContain: "test message",
		},
		{
			name:          "without transaction, with formatting",
			err:           errors.New("test error"),
			msg:           "test message shows %d value",
			args:          []interface{}{11},
			shouldContain: "test message shows 11 value",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TransactionError(tt.tx, tt.err, tt.msg, tt.args...)
			require.ErrorIs(t, err, tt.err)
			require.Contains(t, err.Error(), tt.shouldContain)
			if tt.tx != nil {
				require.Contains(t, err.Error(), tt.tx.Hash().String())
			} else {
				require.Contains(t, err.Error(), "tx failed to be submitted")
			}
		})
	}
}

func TestTxDump(t *testing.T) {
	testData := []byte{1, 2, 3, 4, 5, 6}
	tx := types.NewTx(&types.DynamicFeeTx{Data: testData})
	dump, err := TxDump("deploy", tx)
	require.NoError(t, err)
	require.Contains(t, dump, "Tx Dump For deploy")
	require.Contains(t, dump, "Calldata Dump")
	require.Contains(t, dump, hex.EncodeToString(testData))

	_, err = TxDump("deploy", nil)
	require.Error(t, err)
}

func TestPrivateKeyToAddress(t *testing.T) {
	privateKey, err := crypto.GenerateKey()
	require.NoError(t, err)
	privateKeyHex := hex.EncodeToString(crypto.FromECDSA(privateKey))

	addr, err := PrivateKeyToAddress(privateKeyHex)
	require.NoError(t, err)
	require.Equal(t, crypto.PubkeyToAddress(privateKey.PublicKey), addr)

	_, err = PrivateKeyToAddress("invalid")
	require.Error(t, err)
}

type testDataError struct {
	msg  string
	data interface{}
}

func (e testDataError) Error() string          { return e.msg }
func (e testDataError) ErrorData() interface{} { return e.data }

func TestRevertReason(t *testing.T) {
	// Error(string) payload for "You aren't the owner"
	payload := "0x08c379a0" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000014" +
		"596f75206172656e277420746865206f776e6572000000000000000000000000"
	tests := []struct {
		name     string
		err      error
		expected string
		found    bool
	}{
		{
			name: "nil",
		},
		{
			name:     "rpc data error",
			err:      fmt.Errorf("failure calling: %w", testDataError{msg: "execution reverted", data: payload}),
			expected: "You aren't the owner",
			found:    true,
		},
		{
			name:     "flattened message",
			err:      errors.New("failed to estimate gas needed: execution reverted: End time must be greater than start time"),
			expected: "End time must be greater than start time",
			found:    true,
		},
		{
			name: "wrapped flattened message",
			err: TransactionError(
				nil,
				errors.New("failed to estimate gas needed: execution reverted: You aren't the owner"),
				"failure on %s",
				"transfer ownership",
			),
			expected: "You aren't the owner",
			found:    true,
		},
		{
			name: "revert without reason",
			err:  testDataError{msg: "execution reverted", data: "0x"},
		},
		{
			name: "unrelated error",
			err:  errors.New("connection refused"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, found := RevertReason(tt.err)
			require.Equal(t, tt.found, found)
			require.Equal(t, tt.expected, reason)
		})
	}
}
