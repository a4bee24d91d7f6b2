// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cobrautils

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lukso-whitelist/whitelist-deployer/pkg/ux"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type UsageError struct {
	cmd *cobra.Command
	err error
}

func (e UsageError) Error() string {
	return fmt.Sprintf("Usage error: %s", e.err)
}

func (e UsageError) Unwrap() error {
	return e.err
}

func NewUsageError(cmd *cobra.Command, err error) UsageError {
	return UsageError{
		cmd: cmd,
		err: err,
	}
}

func ExactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		err := cobra.ExactArgs(n)(cmd, args)
		if err != nil {
			_ = cmd.Help()
			err = NewUsageError(cmd, err)
		}
		return err
	}
}

// HandleErrors prints [err] to stderr and exits with status 1.
// It does nothing if [err] is nil.
func HandleErrors(err error) {
	if PrintError(os.Stderr, err) {
		os.Exit(1)
	}
}

// PrintError writes [err] to [w], together with the command usage for
// usage errors, and reports if there was anything to print
func PrintError(w io.Writer, err error) bool {
	if err == nil {
		return false
	}
	var usageErr UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintln(w, usageErr.cmd.UsageString())
		fmt.Fprintln(w, usageErr)
	} else {
		fmt.Fprintf(w, "Error: %s\n", err)
	}
	ux.Logger.Error("command failed", zap.Error(err))
	return true
}

func ConfigureRootCmd(cmd *cobra.Command) {
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return NewUsageError(cmd, err)
	})
	// errors are printed once, by HandleErrors
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
}
