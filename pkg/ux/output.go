// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package ux

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var Logger *UserLog

type UserLog struct {
	log    *zap.Logger
	Writer io.Writer
}

// NewUserLog sets the package level [Logger]
func NewUserLog(log *zap.Logger, userwriter io.Writer) *UserLog {
	if log == nil {
		log = zap.NewNop()
	}
	if userwriter == nil {
		userwriter = os.Stdout
	}
	Logger = &UserLog{
		log:    log,
		Writer: userwriter,
	}
	return Logger
}

// IsTerminal indicates if [w] is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PrintToUser prints msg directly on the screen, but also to log file
func (ul *UserLog) PrintToUser(msg string, args ...interface{}) {
	ul.print(fmt.Sprintf(msg, args...) + "\n")
}

func (ul *UserLog) print(msg string) {
	if ul == nil {
		fmt.Print(msg)
		return
	}
	if IsTerminal(ul.Writer) {
		fmt.Fprint(ul.Writer, "\r\033[K") // Clear the line from the cursor position to the end
	}
	fmt.Fprint(ul.Writer, msg)
	ul.log.Info(strings.TrimSuffix(msg, "\n"))
}

// Debug prints to the log file
func (ul *UserLog) Debug(msg string, fields ...zap.Field) {
	if ul == nil {
		return
	}
	ul.log.Debug(msg, fields...)
}

// Info prints to the log file
func (ul *UserLog) Info(msg string, fields ...zap.Field) {
	if ul == nil {
		return
	}
	ul.log.Info(msg, fields...)
}

// Error prints to the log file
func (ul *UserLog) Error(msg string, fields ...zap.Field) {
	if ul == nil {
		return
	}
	ul.log.Error(msg, fields...)
}

// GreenCheckmarkToUser prints a green checkmark to the user before the message
func (ul *UserLog) GreenCheckmarkToUser(msg string, args ...interface{}) {
	checkmark := "✓" // Unicode for checkmark symbol
	green := color.New(color.FgHiGreen).SprintFunc()
	ul.PrintToUser(green(checkmark)+" "+msg, args...)
}

func (ul *UserLog) RedXToUser(msg string, args ...interface{}) {
	xmark := "✗" // Unicode for X symbol
	red := color.New(color.FgHiRed).SprintFunc()
	ul.PrintToUser(red(xmark)+" "+msg, args...)
}

func (ul *UserLog) PrintLineSeparator() {
	ul.PrintToUser("==============================================")
}

func ConvertToStringWithThousandSeparator(input uint64) string {
	p := message.NewPrinter(language.English)
	s := p.Sprintf("%d", input)
	return strings.ReplaceAll(s, ",", "_")
}
