// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bytecode is a small label resolving EVM assembler.
//
// Programs are built with a fluent API and assembled into raw bytecode:
//
//	code, err := bytecode.New().
//		Push(0).Op(vm.CALLDATALOAD).
//		JumpIf("nonzero").
//		Revert("zero input").
//		Label("nonzero").
//		Op(vm.STOP).
//		Assemble()
//
// Label references are always encoded as PUSH2, so programs are limited to
// 64KiB, well above the EIP-170 contract size limit.
package bytecode

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
)

const (
	labelRefSize = 3
	maxOffset    = 0xffff

	// Error(string)
	errorSelector = 0x08c379a0
)

var (
	ErrUnknownLabel   = errors.New("unknown label")
	ErrDuplicateLabel = errors.New("duplicate label")
	ErrCodeTooLarge   = errors.New("code offset does not fit in PUSH2")
	ErrInvalidPush    = errors.New("invalid push value")
)

type itemKind int

const (
	kindOp itemKind = iota
	kindPush
	kindLabelRef
	kindLabelDef
)

type item struct {
	kind  itemKind
	op    vm.OpCode
	data  []byte
	label string
}

func (i item) size() int {
	switch i.kind {
	case kindPush:
		return 1 + len(i.data)
	case kindLabelRef:
		return labelRefSize
	default:
		return 1
	}
}

// Program is a sequence of EVM instructions with symbolic jump targets.
// The first error encountered while building is kept and returned by Assemble.
type Program struct {
	items []item
	err   error
}

func New() *Program {
	return &Program{}
}

// Op appends raw opcodes.
func (p *Program) Op(ops ...vm.OpCode) *Program {
	for _, op := range ops {
		p.items = append(p.items, item{kind: kindOp, op: op})
	}
	return p
}

// Push appends the shortest PUSHn for an integer value ([int], [uint64],
// [*big.Int]), or a PUSHn of exactly len(v) bytes for byte valued arguments
// ([]byte, [4]byte, [common.Address], [common.Hash]).
func (p *Program) Push(v any) *Program {
	data, err := pushData(v)
	if err != nil {
		p.fail(err)
		return p
	}
	p.items = append(p.items, item{
		kind: kindPush,
		op:   vm.PUSH1 + vm.OpCode(len(data)-1),
		data: data,
	})
	return p
}

// PushLabel pushes the code offset of [name].
func (p *Program) PushLabel(name string) *Program {
	p.items = append(p.items, item{kind: kindLabelRef, label: name})
	return p
}

// Label defines [name] at the current position and emits a JUMPDEST.
func (p *Program) Label(name string) *Program {
	p.items = append(p.items, item{kind: kindLabelDef, label: name})
	return p
}

// Jump unconditionally jumps to [name].
func (p *Program) Jump(name string) *Program {
	return p.PushLabel(name).Op(vm.JUMP)
}

// JumpIf jumps to [name] if the top of the stack is non zero.
func (p *Program) JumpIf(name string) *Program {
	return p.PushLabel(name).Op(vm.JUMPI)
}

// Revert stops execution with an ABI encoded Error(string) revert payload,
// the format produced by Solidity require statements.
func (p *Program) Revert(reason string) *Program {
	p.Push(errorSelector).Push(0xe0).Op(vm.SHL).Push(0).Op(vm.MSTORE)
	p.Push(0x20).Push(0x04).Op(vm.MSTORE)
	p.Push(len(reason)).Push(0x24).Op(vm.MSTORE)
	words := (len(reason) + 31) / 32
	for i := 0; i < words; i++ {
		word := make([]byte, 32)
		copy(word, reason[i*32:])
		p.Push(word).Push(0x44 + 32*i).Op(vm.MSTORE)
	}
	return p.Push(0x44 + 32*words).Push(0).Op(vm.REVERT)
}

// Append copies the instructions of [other] at the end of [p].
// Both programs share the label namespace.
func (p *Program) Append(other *Program) *Program {
	if other.err != nil {
		p.fail(other.err)
	}
	p.items = append(p.items, other.items...)
	return p
}

func (p *Program) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// Assemble resolves labels and returns the bytecode.
func (p *Program) Assemble() ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}
	labels := map[string]int{}
	pc := 0
	for _, it := range p.items {
		if it.kind == kindLabelDef {
			if _, ok := labels[it.label]; ok {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateLabel, it.label)
			}
			if pc > maxOffset {
				return nil, fmt.Errorf("%w: label %s at %d", ErrCodeTooLarge, it.label, pc)
			}
			labels[it.label] = pc
		}
		pc += it.size()
	}
	code := make([]byte, 0, pc)
	for _, it := range p.items {
		switch it.kind {
		case kindOp:
			code = append(code, byte(it.op))
		case kindPush:
			code = append(code, byte(it.op))
			code = append(code, it.data...)
		case kindLabelDef:
			code = append(code, byte(vm.JUMPDEST))
		case kindLabelRef:
			dest, ok := labels[it.label]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownLabel, it.label)
			}
			code = append(code, byte(vm.PUSH2), byte(dest>>8), byte(dest))
		}
	}
	return code, nil
}

// MustAssemble is like Assemble but panics on error.
func (p *Program) MustAssemble() []byte {
	code, err := p.Assemble()
	if err != nil {
		panic(err)
	}
	return code
}

// Deployable returns creation code that runs [ctor] and then returns
// [runtime] as the code of the new contract. [ctor] must fall through
// at its end and may not use memory it expects to survive.
func Deployable(ctor *Program, runtime []byte) ([]byte, error) {
	if ctor == nil {
		ctor = New()
	}
	initCode, err := ctor.Assemble()
	if err != nil {
		return nil, err
	}
	// PUSH2 len DUP1 PUSH2 offset PUSH1 0 CODECOPY PUSH1 0 RETURN
	const copierSize = 13
	offset := len(initCode) + copierSize
	if len(runtime) > maxOffset || offset > maxOffset {
		return nil, ErrCodeTooLarge
	}
	copier := []byte{
		byte(vm.PUSH2), byte(len(runtime) >> 8), byte(len(runtime)),
		byte(vm.DUP1),
		byte(vm.PUSH2), byte(offset >> 8), byte(offset),
		byte(vm.PUSH1), 0,
		byte(vm.CODECOPY),
		byte(vm.PUSH1), 0,
		byte(vm.RETURN),
	}
	code := make([]byte, 0, offset+len(runtime))
	code = append(code, initCode...)
	code = append(code, copier...)
	return append(code, runtime...), nil
}

func pushData(v any) ([]byte, error) {
	switch x := v.(type) {
	case int:
		if x < 0 {
			return nil, fmt.Errorf("%w: negative integer %d", ErrInvalidPush, x)
		}
		return minimalBytes(new(big.Int).SetUint64(uint64(x))), nil
	case uint64:
		return minimalBytes(new(big.Int).SetUint64(x)), nil
	case *big.Int:
		if x == nil || x.Sign() < 0 || x.BitLen() > 256 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPush, x)
		}
		return minimalBytes(x), nil
	case []byte:
		if len(x) == 0 || len(x) > 32 {
			return nil, fmt.Errorf("%w: %d bytes", ErrInvalidPush, len(x))
		}
		return common.CopyBytes(x), nil
	case [4]byte:
		return x[:], nil
	case common.Address:
		return x.Bytes(), nil
	case common.Hash:
		return x.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidPush, v)
	}
}

func minimalBytes(x *big.Int) []byte {
	if x.Sign() == 0 {
		return []byte{0}
	}
	return x.Bytes()
}
