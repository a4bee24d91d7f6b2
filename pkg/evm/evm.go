// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

const (
	BaseFeeFactor        = 2
	MaxPriorityFeePerGas = 2500000000 // 2.5 gwei
	defaultScheme        = "https://"
)

var ErrNoBaseFee = errors.New("latest header has no base fee, London fork not active")

// EthClient is the subset of the JSON RPC API used by this repository.
// It is satisfied both by *ethclient.Client and by the simulated backend client.
type EthClient interface {
	bind.ContractBackend
	bind.DeployBackend
	ethereum.ChainIDReader
	ethereum.ChainStateReader
}

// used to mock the connection function
var ethclientDialContext = func(ctx context.Context, rawURL string) (EthClient, error) {
	return ethclient.DialContext(ctx, rawURL)
}

// wraps over an eth client for the calls used by the deployer. features:
// - adds a default scheme in case it is missing
// - logs rpc url in case of failure
// - no retries, every failure is returned to the caller
type Client struct {
	EthClient EthClient
	URL       string
}

// indicates if the given rpc url has schema or not
func HasScheme(rpcURL string) (bool, error) {
	if parsedURL, err := url.Parse(rpcURL); err != nil {
		if !strings.Contains(err.Error(), "first path segment in URL cannot contain colon") {
			return false, err
		}
		return false, nil
	} else {
		return strings.Contains(rpcURL, "://") && parsedURL.Scheme != "", nil
	}
}

// connects an evm client to the given [rpcURL]
// an url without scheme is assumed to be https
func GetClient(ctx context.Context, rpcURL string) (Client, error) {
	hasScheme, err := HasScheme(rpcURL)
	if err != nil {
		return Client{URL: rpcURL}, fmt.Errorf("failure determining the scheme of url %s: %w", rpcURL, err)
	}
	if !hasScheme {
		rpcURL = defaultScheme + rpcURL
	}
	client := Client{
		URL: rpcURL,
	}
	client.EthClient, err = ethclientDialContext(ctx, rpcURL)
	if err != nil {
		return client, fmt.Errorf("failure connecting to %s: %w", rpcURL, err)
	}
	return client, nil
}

// wraps an already connected [ethClient]
func NewClient(ethClient EthClient, rpcURL string) Client {
	return Client{
		EthClient: ethClient,
		URL:       rpcURL,
	}
}

// closes underlying connection, if the client holds one
func (client Client) Close() {
	if c, ok := client.EthClient.(interface{ Close() }); ok {
		c.Close()
	}
}

// returns the chain ID
func (client Client) GetChainID(ctx context.Context) (*big.Int, error) {
	chainID, err := client.EthClient.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failure getting chain id from %s: %w", client.URL, err)
	}
	return chainID, nil
}

// returns the nonce at [address]
func (client Client) NonceAt(ctx context.Context, address common.Address) (uint64, error) {
	nonce, err := client.EthClient.NonceAt(ctx, address, nil)
	if err != nil {
		return 0, fmt.Errorf("failure obtaining nonce for %s on %s: %w", address.Hex(), client.URL, err)
	}
	return nonce, nil
}

// returns the balance for [address]
func (client Client) GetAddressBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	balance, err := client.EthClient.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failure obtaining balance for %s on %s: %w", address.Hex(), client.URL, err)
	}
	return balance, nil
}

// returns the suggested gas tip
func (client Client) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	gasTipCap, err := client.EthClient.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("failure obtaining gas tip cap on %s: %w", client.URL, err)
	}
	return gasTipCap, nil
}

// returns the base fee of the latest block
func (client Client) EstimateBaseFee(ctx context.Context) (*big.Int, error) {
	header, err := client.EthClient.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failure estimating base fee on %s: %w", client.URL, err)
	}
	if header.BaseFee == nil {
		return nil, fmt.Errorf("failure estimating base fee on %s: %w", client.URL, ErrNoBaseFee)
	}
	return new(big.Int).Set(header.BaseFee), nil
}

// Returns gasFeeCap, gasTipCap, and nonce to be used when constructing a transaction
func (client Client) CalculateTxParams(
	ctx context.Context,
	address common.Address,
) (*big.Int, *big.Int, uint64, error) {
	baseFee, err := client.EstimateBaseFee(ctx)
	if err != nil {
		return nil, nil, 0, err
	}
	gasTipCap, err := client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, nil, 0, err
	}
	nonce, err := client.NonceAt(ctx, address)
	if err != nil {
		return nil, nil, 0, err
	}
	gasFeeCap := baseFee.Mul(baseFee, big.NewInt(BaseFeeFactor))
	gasFeeCap.Add(gasFeeCap, big.NewInt(MaxPriorityFeePerGas))
	if gasFeeCap.Cmp(gasTipCap) < 0 {
		gasFeeCap.Add(gasFeeCap, gasTipCap)
	}
	return gasFeeCap, gasTipCap, nonce, nil
}

// returns the estimated gas limit
func (client Client) EstimateGasLimit(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	gasLimit, err := client.EthClient.EstimateGas(ctx, msg)
	if err != nil {
		return 0, fmt.Errorf("failure estimating gas limit on %s: %w", client.URL, err)
	}
	return gasLimit, nil
}

// executes a read only call at the latest block
func (client Client) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	out, err := client.EthClient.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("failure calling %s on %s: %w", msg.To, client.URL, err)
	}
	return out, nil
}

// sends [tx]
func (client Client) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := client.EthClient.SendTransaction(ctx, tx); err != nil {
		return fmt.Errorf("failure sending transaction %s to %s: %w", tx.Hash(), client.URL, err)
	}
	return nil
}

// waits for [tx]'s receipt and indicates if it has successful state
func (client Client) WaitForTransaction(
	ctx context.Context,
	tx *types.Transaction,
) (*types.Receipt, bool, error) {
	receipt, err := bind.WaitMined(ctx, client.EthClient, tx)
	if err != nil {
		return nil, false, fmt.Errorf("failure waiting for tx %s on %s: %w", tx.Hash(), client.URL, err)
	}
	return receipt, receipt.Status == types.ReceiptStatusSuccessful, nil
}

// signs a dynamic fee tx from [signer] to [to] with [value] and [data],
// sends it and waits for it to be mined.
// the gas limit is estimated, so a call that would revert fails before
// being submitted
func (client Client) SendDynamicFeeTx(
	ctx context.Context,
	signer *Signer,
	to common.Address,
	value *big.Int,
	data []byte,
) (*types.Transaction, *types.Receipt, error) {
	if value == nil {
		value = big.NewInt(0)
	}
	chainID, err := client.GetChainID(ctx)
	if err != nil {
		return nil, nil, err
	}
	gasFeeCap, gasTipCap, nonce, err := client.CalculateTxParams(ctx, signer.Address())
	if err != nil {
		return nil, nil, err
	}
	gasLimit, err := client.EstimateGasLimit(ctx, ethereum.CallMsg{
		From:  signer.Address(),
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return nil, nil, err
	}
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		To:        &to,
		Gas:       gasLimit,
		GasFeeCap: gasFeeCap,
		GasTipCap: gasTipCap,
		Value:     value,
		Data:      data,
	})
	signedTx, err := signer.SignTx(tx, chainID)
	if err != nil {
		return nil, nil, err
	}
	if err := client.SendTransaction(ctx, signedTx); err != nil {
		return nil, nil, err
	}
	receipt, success, err := client.WaitForTransaction(ctx, signedTx)
	if err != nil {
		return signedTx, nil, err
	}
	if !success {
		return signedTx, receipt, TransactionError(signedTx, ErrFailedReceiptStatus, "failure executing tx to %s", to.Hex())
	}
	return signedTx, receipt, nil
}

// returns the contract bytecode at [contractAddress]
func (client Client) GetContractBytecode(ctx context.Context, contractAddress common.Address) ([]byte, error) {
	code, err := client.EthClient.CodeAt(ctx, contractAddress, nil)
	if err != nil {
		return nil, fmt.Errorf(
			"failure obtaining code from %s at address %s: %w",
			client.URL,
			contractAddress.Hex(),
			err,
		)
	}
	return code, nil
}

// indicates wether a contract is deployed on [contractAddress]
func (client Client) ContractAlreadyDeployed(ctx context.Context, contractAddress common.Address) (bool, error) {
	if bs, err := client.GetContractBytecode(ctx, contractAddress); err != nil {
		return false, err
	} else {
		return len(bs) != 0, nil
	}
}
