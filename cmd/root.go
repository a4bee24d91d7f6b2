// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/lukso-whitelist/whitelist-deployer/pkg/cobrautils"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/config"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/constants"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/utils"
	"github.com/lukso-whitelist/whitelist-deployer/pkg/ux"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logLevel string
	envFile  string

	Version = ""

	app *config.Config
)

// NewRootCmd builds the whitelist-deployer command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "whitelist-deployer",
		Short: "Deploys the WhitelistFactory contract through a LUKSO Universal Profile",
		Long: `whitelist-deployer deploys the WhitelistFactory contract on LUKSO testnet.

The deployment is executed by the Universal Profile at UP_ADDR, as an ERC725X
CREATE operation signed by its controller key PRIVATE_KEY. Both settings are
read from the environment, or from a dotenv file in the working directory.
The deployed factory is owned by the Universal Profile.`,
		Args:              cobrautils.ExactArgs(0),
		PersistentPreRunE: setup,
		RunE:              deploy,
		Version:           Version,
	}
	cobrautils.ConfigureRootCmd(rootCmd)

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	addPersistentFlags(rootCmd.PersistentFlags())
	return rootCmd
}

func addPersistentFlags(flags *pflag.FlagSet) {
	flags.StringVar(&logLevel, logLevelFlag, constants.DefaultLogLevel, "log level for the application")
	flags.StringVar(&envFile, envFileFlag, constants.DefaultEnvFile, "dotenv file to read settings from")
}

func setup(cmd *cobra.Command, _ []string) error {
	app = config.New(afero.NewOsFs())
	if err := app.SetEnvFile(envFile); err != nil {
		return err
	}
	if !cmd.Flags().Changed(logLevelFlag) && app.ConfigValueIsSet(constants.LogLevelEnvVarName) {
		logLevel = app.GetConfigStringValue(constants.LogLevelEnvVarName)
	}
	if err := setupLogging(cmd); err != nil {
		return err
	}
	ux.Logger.Info("settings loaded", zap.String("env-file", app.GetConfigPath()))
	return nil
}

func setupLogging(cmd *cobra.Command) error {
	displayLevel, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level configured: %s", logLevel)
	}
	logDir := utils.UserHomePath(constants.BaseDirName, constants.LogDir)
	if err := os.MkdirAll(logDir, constants.DefaultPerms755); err != nil {
		return fmt.Errorf("failed creating log directory: %w", err)
	}

	// some logging config params
	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.LogFileName),
		MaxSize:    constants.MaxLogFileSize,
		MaxBackups: constants.MaxNumOfLogFiles,
		MaxAge:     constants.RetainOldFiles,
	})
	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), fileWriter, zapcore.DebugLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig), zapcore.AddSync(cmd.ErrOrStderr()), displayLevel),
	)
	// create the user facing logger as a global var
	ux.NewUserLog(zap.New(core), cmd.OutOrStdout())
	return nil
}

// Execute runs the root command, cancelling it on SIGINT or SIGTERM.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	cobrautils.HandleErrors(err)
}
