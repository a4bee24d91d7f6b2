// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/clierrors"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/constants"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/evm"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/utils"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Config reads settings from the environment, and from an optional
// dotenv file. Environment variables take precedence over the file.
type Config struct {
	v  *viper.Viper
	fs afero.Fs
}

// DeployConfig holds the validated settings of a deployment run
type DeployConfig struct {
	// hex encoded, without 0x prefix
	PrivateKey     string
	EOA            common.Address
	AccountAddress common.Address
	RPCURL         string
}

func New(fs afero.Fs) *Config {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	v := viper.New()
	v.SetFs(fs)
	v.AutomaticEnv() // read in environment variables that match
	return &Config{v: v, fs: fs}
}

// SetEnvFile reads the dotenv file at [path], if it exists.
// A missing file is not an error, as every setting can come from the environment.
func (c *Config) SetEnvFile(path string) error {
	if path == "" {
		path = constants.DefaultEnvFile
	}
	path = utils.ExpandHome(path)
	exists, err := afero.Exists(c.fs, path)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	c.v.SetConfigType("env")
	c.v.SetConfigFile(path)
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failure reading env file %s: %w", path, err)
	}
	return nil
}

func (c *Config) GetConfigPath() string {
	return c.v.ConfigFileUsed()
}

// SetConfigValue sets the value of a configuration key, for this run only.
func (c *Config) SetConfigValue(key string, value interface{}) {
	c.v.Set(key, value)
}

func (c *Config) ConfigValueIsSet(key string) bool {
	return c.GetConfigStringValue(key) != ""
}

func (c *Config) GetConfigStringValue(key string) string {
	return utils.CleanupString(c.v.GetString(key))
}

// LoadDeployConfig validates PRIVATE_KEY and UP_ADDR, and resolves the
// endpoint, RPC_URL overriding the LUKSO testnet one.
func (c *Config) LoadDeployConfig() (DeployConfig, error) {
	if !c.ConfigValueIsSet(constants.PrivateKeyEnvVarName) {
		return DeployConfig{}, clierrors.ErrMissingPrivateKey
	}
	privateKey := utils.TrimHexa(c.GetConfigStringValue(constants.PrivateKeyEnvVarName))
	eoa, err := evm.PrivateKeyToAddress(privateKey)
	if err != nil {
		return DeployConfig{}, clierrors.ErrInvalidPrivateKey
	}
	if !c.ConfigValueIsSet(constants.AccountAddressEnvVarName) {
		return DeployConfig{}, clierrors.ErrMissingAccountAddress
	}
	accountAddress := c.GetConfigStringValue(constants.AccountAddressEnvVarName)
	if !common.IsHexAddress(accountAddress) {
		return DeployConfig{}, fmt.Errorf("%w: %q", clierrors.ErrInvalidAccountAddress, accountAddress)
	}
	if !validChecksum(accountAddress) {
		return DeployConfig{}, fmt.Errorf("%w: bad address checksum %q", clierrors.ErrInvalidAccountAddress, accountAddress)
	}
	rpcURL := constants.LuksoTestnetRPCURL
	if c.ConfigValueIsSet(constants.RPCURLEnvVarName) {
		rpcURL = c.GetConfigStringValue(constants.RPCURLEnvVarName)
	}
	return DeployConfig{
		PrivateKey:     privateKey,
		EOA:            eoa,
		AccountAddress: common.HexToAddress(accountAddress),
		RPCURL:         rpcURL,
	}, nil
}

// mixed case addresses must carry a valid EIP-55 checksum.
// all lower or all upper case addresses carry none.
func validChecksum(address string) bool {
	hexAddress := utils.TrimHexa(address)
	if hexAddress == strings.ToLower(hexAddress) || hexAddress == strings.ToUpper(hexAddress) {
		return true
	}
	return hexAddress == utils.TrimHexa(common.HexToAddress(address).Hex())
}
