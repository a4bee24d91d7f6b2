// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package whitelistfactory

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ErrEventSignatureMismatch = errors.New("event signature mismatch")

// Whitelist is an entry as stored on chain
type Whitelist struct {
	StartTime    *big.Int
	EndTime      *big.Int
	Owner        common.Address
	MetadataHash [32]byte
}

// WhitelistCreated represents a WhitelistCreated event raised by the factory
type WhitelistCreated struct {
	Id        *big.Int
	Metadata  string
	StartTime *big.Int
	EndTime   *big.Int
	Owner     common.Address
	Raw       types.Log
}

// OwnershipTransferred represents an OwnershipTransferred event raised by the factory
type OwnershipTransferred struct {
	PreviousOwner common.Address
	NewOwner      common.Address
	Raw           types.Log
}

// WhitelistFactory is a binding around a deployed factory
type WhitelistFactory struct {
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
}

// Deploy deploys a new factory, owned by the [opts] sender
func Deploy(opts *bind.TransactOpts, backend bind.ContractBackend) (common.Address, *types.Transaction, *WhitelistFactory, error) {
	parsed := parsedABI()
	address, tx, contract, err := bind.DeployContract(opts, parsed, Bytecode(), backend)
	if err != nil {
		return common.Address{}, nil, nil, err
	}
	return address, tx, &WhitelistFactory{address: address, abi: parsed, contract: contract}, nil
}

// NewWhitelistFactory binds to a factory already deployed at [address]
func NewWhitelistFactory(address common.Address, backend bind.ContractBackend) (*WhitelistFactory, error) {
	parsed := parsedABI()
	contract := bind.NewBoundContract(address, parsed, backend, backend, backend)
	return &WhitelistFactory{address: address, abi: parsed, contract: contract}, nil
}

func (w *WhitelistFactory) Address() common.Address {
	return w.address
}

// Owner is a free data retrieval call binding the contract method 0x8da5cb5b.
//
// Solidity: function owner() view returns(address)
func (w *WhitelistFactory) Owner(opts *bind.CallOpts) (common.Address, error) {
	var out []interface{}
	if err := w.contract.Call(opts, &out, "owner"); err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// Count is a free data retrieval call binding the contract method 0x06661abd.
//
// Solidity: function count() view returns(uint256)
func (w *WhitelistFactory) Count(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	if err := w.contract.Call(opts, &out, "count"); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// Whitelist is a free data retrieval call binding the contract method whitelist.
// Unknown ids return a zero entry.
//
// Solidity: function whitelist(uint256 id) view returns(uint256 startTime, uint256 endTime, address owner, bytes32 metadataHash)
func (w *WhitelistFactory) Whitelist(opts *bind.CallOpts, id *big.Int) (Whitelist, error) {
	var out []interface{}
	if err := w.contract.Call(opts, &out, "whitelist", id); err != nil {
		return Whitelist{}, err
	}
	return Whitelist{
		StartTime:    *abi.ConvertType(out[0], new(*big.Int)).(**big.Int),
		EndTime:      *abi.ConvertType(out[1], new(*big.Int)).(**big.Int),
		Owner:        *abi.ConvertType(out[2], new(common.Address)).(*common.Address),
		MetadataHash: *abi.ConvertType(out[3], new([32]byte)).(*[32]byte),
	}, nil
}

// TransferOwnership is a paid mutator transaction binding the contract method 0xf2fde38b.
//
// Solidity: function transferOwnership(address newOwner) returns()
func (w *WhitelistFactory) TransferOwnership(opts *bind.TransactOpts, newOwner common.Address) (*types.Transaction, error) {
	return w.contract.Transact(opts, "transferOwnership", newOwner)
}

// NewWhitelist is a paid mutator transaction binding the contract method newWhitelist.
//
// Solidity: function newWhitelist(string metadata, uint256 startTime, uint256 endTime, address owner) returns(uint256 id)
func (w *WhitelistFactory) NewWhitelist(
	opts *bind.TransactOpts,
	metadata string,
	startTime *big.Int,
	endTime *big.Int,
	owner common.Address,
) (*types.Transaction, error) {
	return w.contract.Transact(opts, "newWhitelist", metadata, startTime, endTime, owner)
}

// ParseWhitelistCreated is a log parse operation binding the contract event WhitelistCreated.
func (w *WhitelistFactory) ParseWhitelistCreated(log types.Log) (*WhitelistCreated, error) {
	event := new(WhitelistCreated)
	if err := w.unpackLog(event, "WhitelistCreated", log); err != nil {
		return nil, err
	}
	event.Raw = log
	return event, nil
}

// ParseOwnershipTransferred is a log parse operation binding the contract event OwnershipTransferred.
func (w *WhitelistFactory) ParseOwnershipTransferred(log types.Log) (*OwnershipTransferred, error) {
	event := new(OwnershipTransferred)
	if err := w.unpackLog(event, "OwnershipTransferred", log); err != nil {
		return nil, err
	}
	event.Raw = log
	return event, nil
}

func (w *WhitelistFactory) unpackLog(out interface{}, event string, log types.Log) error {
	if len(log.Topics) == 0 || log.Topics[0] != w.abi.Events[event].ID {
		return ErrEventSignatureMismatch
	}
	if log.Address != w.address {
		return errors.New("log emitted by another contract")
	}
	return w.contract.UnpackLog(out, event, log)
}
