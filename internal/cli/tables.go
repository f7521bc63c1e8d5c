package cli

import (
	"time"

	"github.com/cvsbridge/cvsbridge/internal/changeset"
	"github.com/cvsbridge/cvsbridge/internal/journal"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	shortIDLength  = 12
	messageWidth   = 60
	startedAtStyle = time.DateTime
)

// shortID is the random tail of a time ordered id; its head only differs
// between runs started minutes apart.
func shortID(id uuid.UUID) string {
	s := id.String()
	return s[len(s)-shortIDLength:]
}

// historyTable lists records newest first.
func (p *printer) historyTable(records []journal.Record, withWorkDir bool) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(p.out)

	header := table.Row{"ID", "STARTED", "KIND", "TARGET", "STATE", "EXIT", "MESSAGE"}
	if withWorkDir {
		header = append(header, "WORK DIR")
	}
	tw.AppendHeader(header)

	for _, rec := range records {
		message := rec.Message
		if rec.Error != "" && message == "" {
			message = rec.Error
		}

		row := table.Row{
			shortID(rec.ID),
			rec.StartedAt.Local().Format(startedAtStyle),
			string(rec.Kind),
			rec.Target,
			p.state(rec.State),
			rec.ExitCode,
			text.Trim(message, messageWidth),
		}
		if withWorkDir {
			row = append(row, rec.Location.WorkDir)
		}
		tw.AppendRow(row)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},  // ID
		{Number: 2, Align: text.AlignLeft},  // STARTED
		{Number: 3, Align: text.AlignLeft},  // KIND
		{Number: 4, Align: text.AlignLeft},  // TARGET
		{Number: 5, Align: text.AlignLeft},  // STATE
		{Number: 6, Align: text.AlignRight}, // EXIT
		{Number: 7, Align: text.AlignLeft},  // MESSAGE
	})
	tw.SetStyle(table.StyleLight)

	return tw
}

// changesTable has one row per path, grouped by category.
func (p *printer) changesTable(changes changeset.Changeset) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(p.out)

	tw.AppendHeader(table.Row{"CATEGORY", "PATH"})
	for _, g := range changes.Groups() {
		for _, path := range g.Paths {
			tw.AppendRow(table.Row{g.Category.Title(), path})
		}
	}
	tw.AppendFooter(table.Row{"Total", changes.Len()})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	tw.SetStyle(table.StyleLight)

	return tw
}
