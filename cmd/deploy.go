// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/chelnak/ysmrr"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lukso-whitelist/whitelist-deployer/contracts/whitelistfactory"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/contract"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/evm"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/universalprofile"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/utils"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/ux"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// used to mock the connection in tests
var getClientFunc = evm.GetClient

func deploy(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	deployConfig, err := app.LoadDeployConfig()
	if err != nil {
		return err
	}
	signer, err := evm.NewSignerFromPrivateKey(deployConfig.PrivateKey)
	if err != nil {
		return err
	}
	ux.Logger.PrintToUser("Deploying contracts with EOA: %s", signer.Address().Hex())

	client, err := getClientFunc(ctx, deployConfig.RPCURL)
	if err != nil {
		return err
	}
	defer client.Close()

	account := universalprofile.NewAccount(deployConfig.AccountAddress, client, signer)
	result, err := deployFactory(ctx, account)
	if err != nil {
		return err
	}
	ux.Logger.PrintToUser("WhitelistFactory address: %s", result.Address.Hex())

	// the factory is deployed at this point, later failures are only reported
	if err := verifyFactory(ctx, client, account, result); err != nil {
		ux.Logger.RedXToUser("Could not verify WhitelistFactory: %s", err)
	}
	if err := printSummary(ctx, client, signer, account, result); err != nil {
		ux.Logger.RedXToUser("Could not print deployment summary: %s", err)
	}
	return nil
}

// deploys the factory through [account], showing a spinner while
// waiting if the output is a terminal
func deployFactory(ctx context.Context, account *universalprofile.Account) (universalprofile.DeployResult, error) {
	var spinner *ysmrr.Spinner
	if ux.IsTerminal(ux.Logger.Writer) {
		spinSession := ux.NewUserSpinner(ux.Logger.Writer)
		defer spinSession.Stop()
		spinner = spinSession.SpinToUser("Deploying WhitelistFactory through %s", account.Address().Hex())
	}
	result, err := account.Deploy(ctx, whitelistfactory.Bytecode())
	if err != nil {
		if reason, ok := evm.RevertReason(err); ok {
			ux.Logger.Error("deployment reverted", zap.String("reason", reason))
		}
		if result.Tx != nil {
			if txDump, dumpErr := evm.TxDump("WhitelistFactory deployment", result.Tx); dumpErr == nil {
				ux.Logger.Debug(txDump)
			}
		}
		if spinner != nil {
			ux.SpinFailWithError(spinner, "", err)
		}
		return result, err
	}
	if spinner != nil {
		ux.SpinComplete(spinner)
	}
	ux.Logger.Info(
		"factory deployed",
		zap.String("address", result.Address.Hex()),
		zap.String("txHash", result.Tx.Hash().Hex()),
	)
	return result, nil
}

// checks the deployed code and the ownership of the new factory.
// a code mismatch is only reported, as the account may be deploying
// a patched build.
func verifyFactory(
	ctx context.Context,
	client evm.Client,
	account *universalprofile.Account,
	result universalprofile.DeployResult,
) error {
	code, err := client.GetContractBytecode(ctx, result.Address)
	if err != nil {
		return err
	}
	if bytes.Equal(code, whitelistfactory.RuntimeBytecode()) {
		ux.Logger.GreenCheckmarkToUser("Deployed code matches the WhitelistFactory runtime")
	} else {
		ux.Logger.RedXToUser("Deployed code differs from the WhitelistFactory runtime")
	}

	factory, err := whitelistfactory.NewWhitelistFactory(result.Address, client.EthClient)
	if err != nil {
		return err
	}
	event, err := evm.GetEventFromLogs(result.Receipt.Logs, factory.ParseOwnershipTransferred)
	if err != nil {
		return evm.TransactionError(result.Tx, err, "failure reading factory ownership event")
	}
	if event.NewOwner != account.Address() {
		ux.Logger.RedXToUser("WhitelistFactory owner is %s, expected %s", event.NewOwner.Hex(), account.Address().Hex())
	}
	return nil
}

func printSummary(
	ctx context.Context,
	client evm.Client,
	signer *evm.Signer,
	account *universalprofile.Account,
	result universalprofile.DeployResult,
) error {
	owner, err := contract.GetContractOwner(ctx, client, result.Address)
	if err != nil {
		return fmt.Errorf("failure reading WhitelistFactory owner: %w", err)
	}
	out, err := contract.CallToMethod(ctx, client, result.Address, "count()->(uint256)")
	if err != nil {
		return fmt.Errorf("failure reading WhitelistFactory count: %w", err)
	}
	count, err := contract.GetSmartContractCallResult[*big.Int]("count", out)
	if err != nil {
		return err
	}
	balance, err := client.GetAddressBalance(ctx, signer.Address())
	if err != nil {
		return err
	}

	ux.Logger.PrintLineSeparator()
	ux.Logger.PrintTable(ux.KeyValueTable(
		"WhitelistFactory deployment",
		table.Row{"EOA", signer.Address().Hex()},
		table.Row{"EOA Balance", fmt.Sprintf("%s %s", utils.FormatAmount(balance, nativeTokenDecimals), nativeTokenSymbol)},
		table.Row{"Universal Profile", account.Address().Hex()},
		table.Row{"Predicted Address", result.Predicted.Hex()},
		table.Row{"WhitelistFactory", result.Address.Hex()},
		table.Row{"Owner", ownerLabel(owner, account.Address())},
		table.Row{"Whitelists", count.String()},
		table.Row{"Tx Hash", result.Tx.Hash().Hex()},
		table.Row{"Block", result.Receipt.BlockNumber.String()},
		table.Row{"Gas Used", ux.ConvertToStringWithThousandSeparator(result.Receipt.GasUsed)},
	))
	return nil
}

func ownerLabel(owner common.Address, account common.Address) string {
	if owner == account {
		return owner.Hex() + " (Universal Profile)"
	}
	return owner.Hex()
}
