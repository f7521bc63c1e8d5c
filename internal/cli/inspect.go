package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/cvsbridge/cvsbridge/internal/watch"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 20

func (c *cli) statusCommand() *cobra.Command {
	var asTable bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print local changes without recording a run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.with(cmd, func(ctx context.Context, e *env, p *printer) error {
				return c.status(ctx, e, p, asTable)
			})
		},
	}

	cmd.Flags().BoolVar(&asTable, "table", false, "Print changes as a table")

	return cmd
}

func (c *cli) status(ctx context.Context, e *env, p *printer, asTable bool) error {
	changes, err := e.runs.Changes(ctx, e.location)
	if err != nil {
		return fmt.Errorf("failed to collect changes: %w", err)
	}

	switch {
	case changes.Empty():
		fmt.Fprintln(p.out, p.dimStyle.Render("No local changes in "+e.location.WorkDir))
	case asTable:
		p.changesTable(changes).Render()
	default:
		fmt.Fprintln(p.out, changes.Render())
	}

	return nil
}

func (c *cli) watchCommand() *cobra.Command {
	var asTable bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print local changes whenever the working copy changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.with(cmd, func(ctx context.Context, e *env, p *printer) error {
				config := watch.DefaultConfig()
				config.IgnoreSuffixes = []string{e.config.CVS.BackupSuffix, e.config.CVS.CleanCopySuffix}

				w, err := watch.Open(e.location.WorkDir, config, e.logger.Named("watch"))
				if err != nil {
					return err //nolint:wrapcheck //already wrapped
				}
				defer func() {
					if closeErr := w.Close(); closeErr != nil {
						e.logger.Warn("failed to close watcher", zap.Error(closeErr))
					}
				}()

				if err = c.status(ctx, e, p, asTable); err != nil {
					return err
				}

				//nolint:wrapcheck //already wrapped
				return w.Run(ctx, func() {
					fmt.Fprintln(p.out)
					if statusErr := c.status(ctx, e, p, asTable); statusErr != nil && ctx.Err() == nil {
						fmt.Fprintln(p.err, p.errorStyle.Render(statusErr.Error()))
					}
				})
			})
		},
	}

	cmd.Flags().BoolVar(&asTable, "table", false, "Print changes as a table")

	return cmd
}

func (c *cli) historyCommand() *cobra.Command {
	var (
		limit int
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List journaled runs of the working copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.with(cmd, func(ctx context.Context, e *env, p *printer) error {
				workDir := e.location.WorkDir
				if all {
					workDir = ""
				}

				records, err := e.runs.List(ctx, workDir, limit)
				if err != nil {
					return err //nolint:wrapcheck //already wrapped
				}
				if len(records) == 0 {
					fmt.Fprintln(p.out, p.dimStyle.Render("No runs recorded"))
					return nil
				}

				p.historyTable(records, all).Render()
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "Maximum number of runs to list")
	cmd.Flags().BoolVar(&all, "all", false, "List runs of every working copy")

	return cmd
}

func (c *cli) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a journaled run",
		Long:  "Print a journaled run. The id may be abbreviated to the short form shown by history.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.with(cmd, func(ctx context.Context, e *env, p *printer) error {
				id, err := c.resolveID(ctx, e, args[0])
				if err != nil {
					return err
				}

				rec, err := e.runs.Get(ctx, id)
				if err != nil {
					return err //nolint:wrapcheck //already wrapped
				}

				fmt.Fprintln(p.out, p.headerStyle.Render(fmt.Sprintf("%s %s", rec.Kind, rec.Target)))
				fmt.Fprintf(p.out, "id:        %s\n", rec.ID)
				fmt.Fprintf(p.out, "work dir:  %s\n", rec.Location.WorkDir)
				fmt.Fprintf(p.out, "root:      %s\n", rec.Location.Root)
				fmt.Fprintf(p.out, "state:     %s\n", p.state(rec.State))
				fmt.Fprintf(p.out, "exit code: %d\n", rec.ExitCode)
				fmt.Fprintf(p.out, "started:   %s\n", rec.StartedAt.Local().Format(startedAtStyle))
				if rec.CompletedAt != nil {
					fmt.Fprintf(p.out, "completed: %s\n", rec.CompletedAt.Local().Format(startedAtStyle))
				}
				if rec.Error != "" {
					fmt.Fprintf(p.out, "error:     %s\n", rec.Error)
				}
				fmt.Fprintln(p.out)

				p.record(rec, true)
				return nil
			})
		},
	}
}

// resolveID accepts a full id or the unique tail of a recent one.
func (c *cli) resolveID(ctx context.Context, e *env, arg string) (uuid.UUID, error) {
	if id, err := uuid.Parse(arg); err == nil {
		return id, nil
	}

	records, err := e.runs.List(ctx, "", e.config.Runs.HistoryLimit)
	if err != nil {
		return uuid.Nil, err //nolint:wrapcheck //already wrapped
	}

	var found []uuid.UUID
	for _, rec := range records {
		if strings.HasSuffix(rec.ID.String(), strings.ToLower(arg)) {
			found = append(found, rec.ID)
		}
	}

	switch len(found) {
	case 0:
		return uuid.Nil, fmt.Errorf("no run matches %q", arg)
	case 1:
		return found[0], nil
	}
	return uuid.Nil, fmt.Errorf("%q matches %d runs, use a longer id", arg, len(found))
}
