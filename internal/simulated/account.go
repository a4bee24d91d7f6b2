// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package simulated

import (
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/lmittmann/w3"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/bytecode"
)

const (
	ErrOnlyOwner            = "Only owner can execute"
	ErrUnsupportedOperation = "Unsupported operation type"
	ErrCreateTarget         = "Create requires empty target"
	ErrCreateFailed         = "Contract deployment failed"
	ErrUnknownFunction      = "Function does not exist"
)

var (
	funcOwner   = w3.MustNewFunc("owner()", "address")
	funcExecute = w3.MustNewFunc("execute(uint256 operationType, address target, uint256 value, bytes data)", "bytes")
)

// AccountBytecode returns the creation code of a minimal ERC725X account.
// The deployer becomes the account owner. Only the owner may call execute,
// which supports the CALL (0) and CREATE (1) operation types. CREATE
// returns the packed 20 bytes address of the new contract, CALL returns the
// callee output and bubbles up its revert data.
func AccountBytecode() []byte {
	ctor := bytecode.New().
		Op(vm.CALLER).Push(0).Op(vm.SSTORE)
	code, err := bytecode.Deployable(ctor, accountRuntime())
	if err != nil {
		panic(err)
	}
	return code
}

func accountRuntime() []byte {
	p := bytecode.New()

	// plain value transfers
	p.Op(vm.CALLDATASIZE, vm.ISZERO).JumpIf("receive")

	p.Push(0).Op(vm.CALLDATALOAD).Push(0xe0).Op(vm.SHR)
	p.Op(vm.DUP1).Push(funcOwner.Selector).Op(vm.EQ).JumpIf("owner")
	p.Op(vm.DUP1).Push(funcExecute.Selector).Op(vm.EQ).JumpIf("execute")
	p.Revert(ErrUnknownFunction)

	p.Label("receive").Op(vm.STOP)

	p.Label("owner").Op(vm.POP)
	p.Push(0).Op(vm.SLOAD).Push(0).Op(vm.MSTORE)
	p.Push(0x20).Push(0).Op(vm.RETURN)

	p.Label("execute").Op(vm.POP)
	p.Push(0).Op(vm.SLOAD).Op(vm.CALLER, vm.EQ).JumpIf("authorized")
	p.Revert(ErrOnlyOwner)

	// copy data to memory 0: [len]
	p.Label("authorized")
	p.Push(0x64).Op(vm.CALLDATALOAD).Push(0x04).Op(vm.ADD)
	p.Op(vm.DUP1, vm.CALLDATALOAD)
	p.Op(vm.SWAP1).Push(0x20).Op(vm.ADD)
	p.Op(vm.DUP2, vm.DUP2).Push(0).Op(vm.CALLDATACOPY)
	p.Op(vm.POP)

	// dispatch on operation type: [len, op]
	p.Push(0x04).Op(vm.CALLDATALOAD)
	p.Op(vm.DUP1, vm.ISZERO).JumpIf("call")
	p.Op(vm.DUP1).Push(1).Op(vm.EQ).JumpIf("create")
	p.Revert(ErrUnsupportedOperation)

	p.Label("create").Op(vm.POP)
	p.Push(0x24).Op(vm.CALLDATALOAD, vm.ISZERO).JumpIf("create_target_ok")
	p.Revert(ErrCreateTarget)
	p.Label("create_target_ok")
	p.Push(0).Push(0x44).Op(vm.CALLDATALOAD, vm.CREATE)
	p.Op(vm.DUP1).JumpIf("created")
	p.Revert(ErrCreateFailed)
	// abi encoded bytes holding abi.encodePacked(address)
	p.Label("created")
	p.Push(0x60).Op(vm.SHL).Push(0x40).Op(vm.MSTORE)
	p.Push(0x14).Jump("return_bytes")

	p.Label("call").Op(vm.POP)
	p.Push(0).Push(0).Op(vm.DUP3).Push(0)
	p.Push(0x44).Op(vm.CALLDATALOAD)
	p.Push(0x24).Op(vm.CALLDATALOAD)
	p.Op(vm.GAS, vm.CALL)
	p.Op(vm.RETURNDATASIZE).Push(0).Push(0x40).Op(vm.RETURNDATACOPY)
	p.JumpIf("call_ok")
	p.Op(vm.RETURNDATASIZE).Push(0x40).Op(vm.REVERT)
	p.Label("call_ok").Op(vm.RETURNDATASIZE)

	// returns the [n] bytes at 0x40 as abi encoded bytes: [n]
	p.Label("return_bytes")
	p.Push(0x20).Push(0).Op(vm.MSTORE)
	p.Op(vm.DUP1).Push(0x20).Op(vm.MSTORE)
	p.Push(0).Op(vm.DUP2).Push(0x40).Op(vm.ADD, vm.MSTORE)
	p.Push(0x1f).Op(vm.ADD).Push(0x05).Op(vm.SHR).Push(0x05).Op(vm.SHL)
	p.Push(0x40).Op(vm.ADD).Push(0).Op(vm.RETURN)

	return p.MustAssemble()
}
