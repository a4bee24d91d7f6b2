// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package whitelistfactory

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/bytecode"
)

// Revert reasons
const (
	ErrNotOwner       = "You aren't the owner"
	ErrZeroOwner      = "New owner is the zero address"
	ErrStartInPast    = "Start time must be greater than current time"
	ErrEndBeforeStart = "End time must be greater than start time"
)

// calldata offsets and lengths above this are rejected
const maxCalldataPointer = 0xffffffffffffffff

// Storage layout
//
//	slot 0: owner
//	slot 1: count
//	slot 2: mapping(uint256 => Whitelist), each entry at keccak256(id . 2)
//	        +0 startTime, +1 endTime, +2 owner, +3 keccak256(metadata)
const (
	slotOwner     = 0
	slotCount     = 1
	slotWhitelist = 2
)

var parsedABI = sync.OnceValue(func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(ABIJSON))
	if err != nil {
		panic(err)
	}
	return parsed
})

var (
	runtimeCode = sync.OnceValue(func() []byte {
		return buildRuntime(parsedABI()).MustAssemble()
	})
	creationCode = sync.OnceValue(func() []byte {
		code, err := bytecode.Deployable(buildConstructor(parsedABI()), runtimeCode())
		if err != nil {
			panic(err)
		}
		return code
	})
)

// Bytecode returns the creation code of the factory
func Bytecode() []byte {
	return append([]byte(nil), creationCode()...)
}

// RuntimeBytecode returns the code stored on chain once deployed
func RuntimeBytecode() []byte {
	return append([]byte(nil), runtimeCode()...)
}

func selector(parsed abi.ABI, method string) [4]byte {
	var sel [4]byte
	copy(sel[:], parsed.Methods[method].ID)
	return sel
}

// owner = msg.sender, emits OwnershipTransferred(0, owner)
func buildConstructor(parsed abi.ABI) *bytecode.Program {
	return bytecode.New().
		Op(vm.CALLVALUE, vm.ISZERO).JumpIf("ctor_ok").
		Push(0).Op(vm.DUP1, vm.REVERT).
		Label("ctor_ok").
		Op(vm.CALLER).Push(slotOwner).Op(vm.SSTORE).
		Op(vm.CALLER).Push(0).
		Push(parsed.Events["OwnershipTransferred"].ID).
		Push(0).Push(0).Op(vm.LOG3)
}

func buildRuntime(parsed abi.ABI) *bytecode.Program {
	p := bytecode.New()

	// non payable, selector required
	p.Op(vm.CALLVALUE).JumpIf("revert")
	p.Push(4).Op(vm.CALLDATASIZE, vm.LT).JumpIf("revert")

	p.Push(0).Op(vm.CALLDATALOAD).Push(0xe0).Op(vm.SHR)
	for _, method := range []string{"owner", "count", "transferOwnership", "newWhitelist", "whitelist"} {
		p.Op(vm.DUP1).Push(selector(parsed, method)).Op(vm.EQ).JumpIf(method)
	}
	p.Append(revertTargets())

	p.Label("owner").Op(vm.POP)
	returnSlot(p, slotOwner)

	p.Label("count").Op(vm.POP)
	returnSlot(p, slotCount)

	p.Label("transferOwnership").Op(vm.POP)
	transferOwnership(p, parsed)

	p.Label("newWhitelist").Op(vm.POP)
	newWhitelist(p, parsed)

	p.Label("whitelist").Op(vm.POP)
	whitelist(p)

	return p
}

// jump targets shared by the methods, none of them falls through
func revertTargets() *bytecode.Program {
	return bytecode.New().
		Label("revert").Push(0).Op(vm.DUP1, vm.REVERT).
		Label("not_owner").Revert(ErrNotOwner).
		Label("zero_owner").Revert(ErrZeroOwner).
		Label("start_past").Revert(ErrStartInPast).
		Label("end_before").Revert(ErrEndBeforeStart)
}

func returnSlot(p *bytecode.Program, slot int) {
	p.Push(slot).Op(vm.SLOAD).Push(0).Op(vm.MSTORE)
	p.Push(0x20).Push(0).Op(vm.RETURN)
}

func onlyOwner(p *bytecode.Program) {
	p.Push(slotOwner).Op(vm.SLOAD, vm.CALLER, vm.EQ, vm.ISZERO).JumpIf("not_owner")
}

// reverts when the address word at [offset] has dirty upper bits
func requireCleanAddress(p *bytecode.Program, offset int) {
	p.Push(offset).Op(vm.CALLDATALOAD).Push(0xa0).Op(vm.SHR).JumpIf("revert")
}

func transferOwnership(p *bytecode.Program, parsed abi.ABI) {
	p.Push(0x24).Op(vm.CALLDATASIZE, vm.LT).JumpIf("revert")
	onlyOwner(p)
	requireCleanAddress(p, 0x04)
	// [new]
	p.Push(0x04).Op(vm.CALLDATALOAD)
	p.Op(vm.DUP1, vm.ISZERO).JumpIf("zero_owner")
	// OwnershipTransferred(old, new)
	p.Op(vm.DUP1).Push(slotOwner).Op(vm.SLOAD)
	p.Push(parsed.Events["OwnershipTransferred"].ID).Push(0).Push(0).Op(vm.LOG3)
	p.Push(slotOwner).Op(vm.SSTORE)
	p.Op(vm.STOP)
}

func newWhitelist(p *bytecode.Program, parsed abi.ABI) {
	p.Push(0x84).Op(vm.CALLDATASIZE, vm.LT).JumpIf("revert")
	onlyOwner(p)
	requireCleanAddress(p, 0x64)

	// [start]: start > block.timestamp
	p.Push(0x24).Op(vm.CALLDATALOAD)
	p.Op(vm.DUP1, vm.TIMESTAMP, vm.LT, vm.ISZERO).JumpIf("start_past")
	// [start, end]: end > start
	p.Push(0x44).Op(vm.CALLDATALOAD)
	p.Op(vm.DUP1, vm.DUP3, vm.LT, vm.ISZERO).JumpIf("end_before")

	// [start, end, off]
	p.Push(0x04).Op(vm.CALLDATALOAD)
	p.Op(vm.DUP1).Push(uint64(maxCalldataPointer)).Op(vm.LT).JumpIf("revert")
	// [start, end, p, len]
	p.Push(0x04).Op(vm.ADD)
	p.Op(vm.DUP1, vm.CALLDATALOAD)
	p.Op(vm.DUP1).Push(uint64(maxCalldataPointer)).Op(vm.LT).JumpIf("revert")
	// calldatasize >= p + 32 + len
	p.Op(vm.DUP1, vm.DUP3, vm.ADD).Push(0x20).Op(vm.ADD)
	p.Op(vm.CALLDATASIZE, vm.LT).JumpIf("revert")
	// [start, end, q, len] with q the first byte of the string
	p.Op(vm.SWAP1).Push(0x20).Op(vm.ADD).Op(vm.SWAP1)

	// [start, end, q, len, id] with count = id = count + 1
	p.Push(slotCount).Op(vm.SLOAD).Push(1).Op(vm.ADD)
	p.Op(vm.DUP1).Push(slotCount).Op(vm.SSTORE)

	// WhitelistCreated(id, metadata, startTime, endTime, owner)
	p.Push(0x80).Push(0x00).Op(vm.MSTORE)
	p.Op(vm.DUP5).Push(0x20).Op(vm.MSTORE)
	p.Op(vm.DUP4).Push(0x40).Op(vm.MSTORE)
	p.Push(0x64).Op(vm.CALLDATALOAD).Push(0x60).Op(vm.MSTORE)
	p.Op(vm.DUP2).Push(0x80).Op(vm.MSTORE)
	p.Op(vm.DUP2, vm.DUP4).Push(0xa0).Op(vm.CALLDATACOPY)
	p.Op(vm.DUP1).Push(parsed.Events["WhitelistCreated"].ID)
	p.Op(vm.DUP4).Push(0x1f).Op(vm.ADD).Push(0x05).Op(vm.SHR).Push(0x05).Op(vm.SHL).Push(0xa0).Op(vm.ADD)
	p.Push(0x00).Op(vm.LOG2)

	// [start, end, q, len, id, hash]
	p.Op(vm.DUP2).Push(0xa0).Op(vm.KECCAK256)
	// [start, end, q, len, id, hash, base]
	p.Op(vm.DUP2).Push(0x00).Op(vm.MSTORE)
	p.Push(slotWhitelist).Push(0x20).Op(vm.MSTORE)
	p.Push(0x40).Push(0x00).Op(vm.KECCAK256)
	p.Op(vm.SWAP1, vm.DUP2).Push(3).Op(vm.ADD, vm.SSTORE)
	p.Push(0x64).Op(vm.CALLDATALOAD, vm.DUP2).Push(2).Op(vm.ADD, vm.SSTORE)
	p.Op(vm.DUP5, vm.DUP2).Push(1).Op(vm.ADD, vm.SSTORE)
	p.Op(vm.DUP6, vm.DUP2, vm.SSTORE)
	// [start, end, q, len, id]
	p.Op(vm.POP)

	// return id
	p.Push(0x00).Op(vm.MSTORE)
	p.Push(0x20).Push(0x00).Op(vm.RETURN)
}

func whitelist(p *bytecode.Program) {
	p.Push(0x24).Op(vm.CALLDATASIZE, vm.LT).JumpIf("revert")
	p.Push(0x04).Op(vm.CALLDATALOAD).Push(0x00).Op(vm.MSTORE)
	p.Push(slotWhitelist).Push(0x20).Op(vm.MSTORE)
	// [base]
	p.Push(0x40).Push(0x00).Op(vm.KECCAK256)
	p.Op(vm.DUP1, vm.SLOAD).Push(0x00).Op(vm.MSTORE)
	p.Op(vm.DUP1).Push(1).Op(vm.ADD, vm.SLOAD).Push(0x20).Op(vm.MSTORE)
	p.Op(vm.DUP1).Push(2).Op(vm.ADD, vm.SLOAD).Push(0x40).Op(vm.MSTORE)
	p.Push(3).Op(vm.ADD, vm.SLOAD).Push(0x60).Op(vm.MSTORE)
	p.Push(0x80).Push(0x00).Op(vm.RETURN)
}
