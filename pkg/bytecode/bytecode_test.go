// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package bytecode

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/core/vm/runtime"
	"github.com/stretchr/testify/require"
)

func TestPushEncoding(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected []byte
	}{
		{"zero", 0, []byte{byte(vm.PUSH1), 0x00}},
		{"one byte", 0xff, []byte{byte(vm.PUSH1), 0xff}},
		{"two bytes", 0x0100, []byte{byte(vm.PUSH2), 0x01, 0x00}},
		{"uint64", uint64(0xe0), []byte{byte(vm.PUSH1), 0xe0}},
		{"big int", big.NewInt(0x123456), []byte{byte(vm.PUSH3), 0x12, 0x34, 0x56}},
		{"bytes keep length", []byte{0x00, 0x01}, []byte{byte(vm.PUSH2), 0x00, 0x01}},
		{"selector", [4]byte{0x8d, 0xa5, 0xcb, 0x5b}, []byte{byte(vm.PUSH4), 0x8d, 0xa5, 0xcb, 0x5b}},
		{"address", common.Address{19: 0x01}, append([]byte{byte(vm.PUSH20)}, common.Address{19: 0x01}.Bytes()...)},
		{"hash", common.Hash{}, append([]byte{byte(vm.PUSH32)}, make([]byte, 32)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := New().Push(tt.value).Assemble()
			require.NoError(t, err)
			require.Equal(t, tt.expected, code)
		})
	}
}

func TestPushInvalid(t *testing.T) {
	for _, v := range []any{-1, []byte{}, make([]byte, 33), "string", new(big.Int).Lsh(big.NewInt(1), 256)} {
		_, err := New().Push(v).Op(vm.STOP).Assemble()
		require.ErrorIs(t, err, ErrInvalidPush)
	}
}

func TestLabels(t *testing.T) {
	code, err := New().
		Jump("end").
		Op(vm.INVALID).
		Label("end").
		Op(vm.STOP).
		Assemble()
	require.NoError(t, err)
	require.Equal(t, []byte{
		byte(vm.PUSH2), 0x00, 0x05,
		byte(vm.JUMP),
		byte(vm.INVALID),
		byte(vm.JUMPDEST),
		byte(vm.STOP),
	}, code)

	_, _, err = runtime.Execute(code, nil, nil)
	require.NoError(t, err)
}

func TestLabelErrors(t *testing.T) {
	_, err := New().Jump("nowhere").Assemble()
	require.ErrorIs(t, err, ErrUnknownLabel)

	_, err = New().Label("a").Label("a").Assemble()
	require.ErrorIs(t, err, ErrDuplicateLabel)

	require.Panics(t, func() { New().Jump("nowhere").MustAssemble() })
}

func TestJumpIf(t *testing.T) {
	// returns 1 when calldata word 0 is non zero, 2 otherwise
	code := New().
		Push(0).Op(vm.CALLDATALOAD).
		JumpIf("set").
		Push(2).Jump("ret").
		Label("set").
		Push(1).
		Label("ret").
		Push(0).Op(vm.MSTORE).
		Push(0x20).Push(0).Op(vm.RETURN).
		MustAssemble()

	ret, _, err := runtime.Execute(code, common.LeftPadBytes([]byte{1}, 32), nil)
	require.NoError(t, err)
	require.Equal(t, common.LeftPadBytes([]byte{1}, 32), ret)

	ret, _, err = runtime.Execute(code, make([]byte, 32), nil)
	require.NoError(t, err)
	require.Equal(t, common.LeftPadBytes([]byte{2}, 32), ret)
}

func TestRevert(t *testing.T) {
	for _, reason := range []string{
		"",
		"short",
		"exactly thirty two bytes long!!!",
		"Start time must be greater than current time",
	} {
		code := New().Revert(reason).MustAssemble()
		ret, _, err := runtime.Execute(code, nil, nil)
		require.ErrorIs(t, err, vm.ErrExecutionReverted)
		decoded, err := abi.UnpackRevert(ret)
		require.NoError(t, err)
		require.Equal(t, reason, decoded)
	}
}

func TestAppend(t *testing.T) {
	tail := New().Label("tail").Op(vm.STOP)
	code, err := New().Jump("tail").Append(tail).Assemble()
	require.NoError(t, err)
	require.Equal(t, []byte{byte(vm.PUSH2), 0x00, 0x04, byte(vm.JUMP), byte(vm.JUMPDEST), byte(vm.STOP)}, code)

	_, err = New().Append(New().Push(-1)).Assemble()
	require.ErrorIs(t, err, ErrInvalidPush)
}

func TestDeployable(t *testing.T) {
	// runtime returns the word stored in slot 0
	runtimeCode := New().
		Push(0).Op(vm.SLOAD).
		Push(0).Op(vm.MSTORE).
		Push(0x20).Push(0).Op(vm.RETURN).
		MustAssemble()
	// constructor stores 42 in slot 0
	ctor := New().Push(42).Push(0).Op(vm.SSTORE)

	initCode, err := Deployable(ctor, runtimeCode)
	require.NoError(t, err)

	cfg := &runtime.Config{}
	deployed, addr, _, err := runtime.Create(initCode, cfg)
	require.NoError(t, err)
	require.Equal(t, runtimeCode, deployed)

	ret, _, err := runtime.Call(addr, nil, cfg)
	require.NoError(t, err)
	require.Equal(t, common.LeftPadBytes([]byte{42}, 32), ret)
}

func TestDeployableWithoutConstructor(t *testing.T) {
	runtimeCode := []byte{byte(vm.STOP)}
	initCode, err := Deployable(nil, runtimeCode)
	require.NoError(t, err)
	require.Len(t, initCode, 14)

	deployed, _, _, err := runtime.Create(initCode, nil)
	require.NoError(t, err)
	require.Equal(t, runtimeCode, deployed)
}

func TestDeployableTooLarge(t *testing.T) {
	_, err := Deployable(nil, make([]byte, 0x10000))
	require.ErrorIs(t, err, ErrCodeTooLarge)
}
