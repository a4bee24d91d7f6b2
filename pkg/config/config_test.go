// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/clierrors"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/constants"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testAccount = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

// clears the host environment so only the test settings apply
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		constants.PrivateKeyEnvVarName,
		constants.AccountAddressEnvVarName,
		constants.RPCURLEnvVarName,
	} {
		t.Setenv(key, "")
	}
}

func newKey(t *testing.T) (string, common.Address) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return hex.EncodeToString(crypto.FromECDSA(key)), crypto.PubkeyToAddress(key.PublicKey)
}

func newConfigWithEnvFile(t *testing.T, content string) *Config {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/.env", []byte(content), 0o600))
	cf := New(fs)
	require.NoError(t, cf.SetEnvFile("/work/.env"))
	require.Equal(t, "/work/.env", cf.GetConfigPath())
	return cf
}

func TestLoadDeployConfigFromEnvFile(t *testing.T) {
	clearEnv(t)
	key, eoa := newKey(t)
	cf := newConfigWithEnvFile(t, "PRIVATE_KEY=0x"+key+"\nUP_ADDR="+testAccount+"\n")

	deployConfig, err := cf.LoadDeployConfig()
	require.NoError(t, err)
	require.Equal(t, key, deployConfig.PrivateKey)
	require.Equal(t, eoa, deployConfig.EOA)
	require.Equal(t, common.HexToAddress(testAccount), deployConfig.AccountAddress)
	require.Equal(t, constants.LuksoTestnetRPCURL, deployConfig.RPCURL)
}

func TestEnvOverridesEnvFile(t *testing.T) {
	clearEnv(t)
	fileKey, _ := newKey(t)
	envKey, envEOA := newKey(t)
	cf := newConfigWithEnvFile(t, "PRIVATE_KEY="+fileKey+"\nUP_ADDR="+testAccount+"\n")
	t.Setenv(constants.PrivateKeyEnvVarName, envKey)
	t.Setenv(constants.RPCURLEnvVarName, "http://127.0.0.1:8545")

	deployConfig, err := cf.LoadDeployConfig()
	require.NoError(t, err)
	require.Equal(t, envEOA, deployConfig.EOA)
	require.Equal(t, "http://127.0.0.1:8545", deployConfig.RPCURL)
}

func TestMissingEnvFile(t *testing.T) {
	clearEnv(t)
	cf := New(afero.NewMemMapFs())
	require.NoError(t, cf.SetEnvFile("/work/.env"))
	require.Empty(t, cf.GetConfigPath())

	_, err := cf.LoadDeployConfig()
	require.ErrorIs(t, err, clierrors.ErrMissingPrivateKey)
}

func TestLoadDeployConfigErrors(t *testing.T) {
	key, _ := newKey(t)
	tests := []struct {
		name        string
		privateKey  string
		account     string
		expectedErr error
	}{
		{
			name:        "missing private key",
			account:     testAccount,
			expectedErr: clierrors.ErrMissingPrivateKey,
		},
		{
			name:        "invalid private key",
			privateKey:  "0xnothex",
			account:     testAccount,
			expectedErr: clierrors.ErrInvalidPrivateKey,
		},
		{
			name:        "missing account",
			privateKey:  key,
			expectedErr: clierrors.ErrMissingAccountAddress,
		},
		{
			name:        "invalid account",
			privateKey:  key,
			account:     "0x1234",
			expectedErr: clierrors.ErrInvalidAccountAddress,
		},
		{
			name:        "bad account checksum",
			privateKey:  key,
			account:     "0x5AAEB6053F3E94C9b9A09f33669435E7Ef1BeAed",
			expectedErr: clierrors.ErrInvalidAccountAddress,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(constants.PrivateKeyEnvVarName, tt.privateKey)
			t.Setenv(constants.AccountAddressEnvVarName, tt.account)
			_, err := New(afero.NewMemMapFs()).LoadDeployConfig()
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestQuotedValues(t *testing.T) {
	clearEnv(t)
	key, eoa := newKey(t)
	t.Setenv(constants.PrivateKeyEnvVarName, ` "`+key+`" `)
	t.Setenv(constants.AccountAddressEnvVarName, testAccount)
	deployConfig, err := New(afero.NewMemMapFs()).LoadDeployConfig()
	require.NoError(t, err)
	require.Equal(t, eoa, deployConfig.EOA)
}

func TestSetConfigValue(t *testing.T) {
	clearEnv(t)
	cf := New(afero.NewMemMapFs())
	require.False(t, cf.ConfigValueIsSet(constants.RPCURLEnvVarName))
	cf.SetConfigValue(constants.RPCURLEnvVarName, "http://localhost:8545")
	require.True(t, cf.ConfigValueIsSet(constants.RPCURLEnvVarName))
	require.Equal(t, "http://localhost:8545", cf.GetConfigStringValue(constants.RPCURLEnvVarName))
}

func TestAccountAddressCase(t *testing.T) {
	key, _ := newKey(t)
	for _, account := range []string{
		testAccount,
		strings.ToLower(testAccount),
		"0x" + strings.ToUpper(testAccount[2:]),
	} {
		clearEnv(t)
		t.Setenv(constants.PrivateKeyEnvVarName, key)
		t.Setenv(constants.AccountAddressEnvVarName, account)
		deployConfig, err := New(afero.NewMemMapFs()).LoadDeployConfig()
		require.NoError(t, err, account)
		require.Equal(t, common.HexToAddress(testAccount), deployConfig.AccountAddress)
	}
}
