// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package ux

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func DefaultTable(title string, header table.Row) table.Writer {
	t := table.NewWriter()
	t.Style().Title.Align = text.AlignCenter
	t.Style().Title.Format = text.FormatUpper
	t.Style().Options.SeparateRows = true
	t.SetTitle(title)
	if header != nil {
		t.AppendHeader(header)
	}
	return t
}

// KeyValueTable renders [rows] of label/value pairs under [title]
func KeyValueTable(title string, rows ...table.Row) table.Writer {
	t := DefaultTable(title, nil)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: text.Colors{text.Bold}},
	})
	t.AppendRows(rows)
	return t
}

// PrintTable prints [t] to the user and to the log file
func (ul *UserLog) PrintTable(t table.Writer) {
	ul.PrintToUser("%s", t.Render())
}
