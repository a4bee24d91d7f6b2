// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package universalprofile drives an LSP0 / ERC725X account contract.
//
// The account executes operations on behalf of its controller. Contracts
// deployed through it are created, and owned, by the account itself.
package universalprofile

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/lmittmann/w3"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/clierrors"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/evm"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/ux"
	"go.uber.org/zap"
)

// ERC725X operation types
const (
	OperationCall         = 0
	OperationCreate       = 1
	OperationCreate2      = 2
	OperationStaticCall   = 3
	OperationDelegateCall = 4
)

var (
	ErrUnexpectedCreateResult = errors.New("unexpected execute result for CREATE")

	funcExecute = w3.MustNewFunc("execute(uint256 operationType, address target, uint256 value, bytes data)", "bytes")
)

// Account is an ERC725X account controlled by [signer]
type Account struct {
	address common.Address
	client  evm.Client
	signer  *evm.Signer
}

// DeployResult describes a contract created through the account
type DeployResult struct {
	Predicted common.Address
	Address   common.Address
	Tx        *types.Transaction
	Receipt   *types.Receipt
}

func NewAccount(address common.Address, client evm.Client, signer *evm.Signer) *Account {
	return &Account{
		address: address,
		client:  client,
		signer:  signer,
	}
}

func (a *Account) Address() common.Address {
	return a.address
}

// EncodeExecute packs an execute call
func EncodeExecute(operationType int64, target common.Address, value *big.Int, data []byte) ([]byte, error) {
	if value == nil {
		value = big.NewInt(0)
	}
	return funcExecute.EncodeArgs(big.NewInt(operationType), target, value, data)
}

// DecodeExecute unpacks the bytes returned by execute
func DecodeExecute(output []byte) ([]byte, error) {
	var ret []byte
	if err := funcExecute.DecodeReturns(output, &ret); err != nil {
		return nil, fmt.Errorf("failure decoding execute output: %w", err)
	}
	return ret, nil
}

// DecodeCreateResult extracts the created contract address from the
// ABI encoded execute output. The payload is abi.encodePacked(address),
// although a full 32 bytes word is accepted as well.
func DecodeCreateResult(output []byte) (common.Address, error) {
	ret, err := DecodeExecute(output)
	if err != nil {
		return common.Address{}, err
	}
	return createdAddress(ret)
}

func createdAddress(ret []byte) (common.Address, error) {
	switch len(ret) {
	case common.AddressLength, common.HashLength:
		return common.BytesToAddress(ret), nil
	default:
		return common.Address{}, fmt.Errorf("%w: %d bytes", ErrUnexpectedCreateResult, len(ret))
	}
}

// StaticExecute simulates execute from the controller at the latest block
func (a *Account) StaticExecute(
	ctx context.Context,
	operationType int64,
	target common.Address,
	value *big.Int,
	data []byte,
) ([]byte, error) {
	input, err := EncodeExecute(operationType, target, value, data)
	if err != nil {
		return nil, err
	}
	output, err := a.client.CallContract(ctx, ethereum.CallMsg{
		From:  a.signer.Address(),
		To:    &a.address,
		Value: value,
		Data:  input,
	})
	if err != nil {
		return nil, err
	}
	return DecodeExecute(output)
}

// Execute sends an execute transaction signed by the controller and waits for it
func (a *Account) Execute(
	ctx context.Context,
	operationType int64,
	target common.Address,
	value *big.Int,
	data []byte,
) (*types.Transaction, *types.Receipt, error) {
	input, err := EncodeExecute(operationType, target, value, data)
	if err != nil {
		return nil, nil, err
	}
	return a.client.SendDynamicFeeTx(ctx, a.signer, a.address, value, input)
}

// PredictCreate returns the address [bytecode] would be deployed at,
// executing CREATE as a read only call
func (a *Account) PredictCreate(ctx context.Context, bytecode []byte) (common.Address, error) {
	ret, err := a.StaticExecute(ctx, OperationCreate, common.Address{}, nil, bytecode)
	if err != nil {
		return common.Address{}, fmt.Errorf("failure predicting deployment address: %w", err)
	}
	return createdAddress(ret)
}

// Create deploys [bytecode] through the account CREATE operation
func (a *Account) Create(ctx context.Context, bytecode []byte) (*types.Transaction, *types.Receipt, error) {
	tx, receipt, err := a.Execute(ctx, OperationCreate, common.Address{}, nil, bytecode)
	if err != nil {
		if errors.Is(err, evm.ErrFailedReceiptStatus) {
			err = fmt.Errorf("%w: %w", clierrors.ErrDeploymentReverted, err)
		}
		return tx, receipt, err
	}
	return tx, receipt, nil
}

// Deploy predicts the address of [bytecode], deploys it and checks there
// is code at the predicted address
func (a *Account) Deploy(ctx context.Context, bytecode []byte) (DeployResult, error) {
	predicted, err := a.PredictCreate(ctx, bytecode)
	if err != nil {
		return DeployResult{}, err
	}
	ux.Logger.Debug("predicted deployment address", zap.String("address", predicted.Hex()))
	tx, receipt, err := a.Create(ctx, bytecode)
	if err != nil {
		return DeployResult{Predicted: predicted, Tx: tx, Receipt: receipt}, err
	}
	result := DeployResult{
		Predicted: predicted,
		Address:   predicted,
		Tx:        tx,
		Receipt:   receipt,
	}
	deployed, err := a.client.ContractAlreadyDeployed(ctx, predicted)
	if err != nil {
		return result, err
	}
	if !deployed {
		return result, evm.TransactionError(tx, clierrors.ErrNoContractCode, "deployment to %s", predicted.Hex())
	}
	return result, nil
}
