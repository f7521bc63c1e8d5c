package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/cvsbridge/cvsbridge/internal/cvs"
	"github.com/spf13/cobra"
)

var errNoComment = errors.New("a commit comment is required, pass it with -m")

func (c *cli) addCommand() *cobra.Command {
	var binary, dir bool

	cmd := &cobra.Command{
		Use:   "add <path>...",
		Short: "Schedule files or directories for addition",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.with(cmd, func(ctx context.Context, e *env, p *printer) error {
				paths, err := e.relativeAll(args)
				if err != nil {
					return err
				}

				var failed []error
				for _, path := range paths {
					var op cvs.Operation
					switch {
					case binary:
						op = cvs.AddBinary{Location: e.location, Path: path}
					case dir:
						op = cvs.AddDir{Location: e.location, Path: path}
					default:
						op = cvs.AddText{Location: e.location, Path: path}
					}

					if runErr := c.execute(ctx, e, p, op); runErr != nil {
						failed = append(failed, runErr)
					}
				}

				return errors.Join(failed...)
			})
		},
	}

	cmd.Flags().BoolVar(&binary, "binary", false, "Add as binary files (-kb)")
	cmd.Flags().BoolVar(&dir, "dir", false, "Add directory entries")
	cmd.MarkFlagsMutuallyExclusive("binary", "dir")

	return cmd
}

func (c *cli) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <path>...",
		Short: "Schedule locally deleted files for removal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.with(cmd, func(ctx context.Context, e *env, p *printer) error {
				paths, err := e.relativeAll(args)
				if err != nil {
					return err
				}

				var failed []error
				for _, path := range paths {
					if runErr := c.execute(ctx, e, p, cvs.Remove{Location: e.location, Path: path}); runErr != nil {
						failed = append(failed, runErr)
					}
				}

				return errors.Join(failed...)
			})
		},
	}
}

func (c *cli) commitCommand() *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "commit <path>...",
		Short: "Commit files with one comment",
		Long: `Commit the given files in a single client invocation.

Without -m the comment of the last successful commit is used again.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.with(cmd, func(ctx context.Context, e *env, p *printer) error {
				paths, err := e.relativeAll(args)
				if err != nil {
					return err
				}

				comment := comment
				if comment == "" {
					comment = e.runs.LastComment()
				}
				if comment == "" {
					return errNoComment
				}

				var op cvs.Operation = cvs.CommitPaths{Location: e.location, Paths: paths, Comment: comment}
				if len(paths) == 1 {
					op = cvs.CommitFile{Location: e.location, Path: paths[0], Comment: comment}
				}

				return c.execute(ctx, e, p, op)
			})
		},
	}

	cmd.Flags().StringVarP(&comment, "message", "m", "", "Commit comment")

	return cmd
}

func (c *cli) checkoutCommand() *cobra.Command {
	var branchTag string

	cmd := &cobra.Command{
		Use:   "checkout <module>",
		Short: "Check out a module into the working directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.with(cmd, func(ctx context.Context, e *env, p *printer) error {
				return c.execute(ctx, e, p, cvs.Checkout{Location: e.location, Module: args[0], BranchTag: branchTag})
			})
		},
	}

	cmd.Flags().StringVarP(&branchTag, "revision", "r", "", "Branch or tag to check out")

	return cmd
}

func (c *cli) updateCommand() *cobra.Command {
	var branchTag string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the working copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.with(cmd, func(ctx context.Context, e *env, p *printer) error {
				var op cvs.Operation = cvs.Update{Location: e.location}
				if branchTag != "" {
					op = cvs.UpdateBranch{Location: e.location, BranchTag: branchTag}
				}

				return c.execute(ctx, e, p, op)
			})
		},
	}

	cmd.Flags().StringVarP(&branchTag, "revision", "r", "", "Switch the working copy to this branch or tag")

	return cmd
}

func (c *cli) compareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <path>",
		Short: "Show the difference between the repository copy and the local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.with(cmd, func(ctx context.Context, e *env, p *printer) error {
				path, err := e.relative(args[0])
				if err != nil {
					return err
				}

				return c.execute(ctx, e, p, cvs.Compare{Location: e.location, Path: path})
			})
		},
	}
}

func (c *cli) showChangesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show-changes",
		Short: "Report local changes and record the run in the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.with(cmd, func(ctx context.Context, e *env, p *printer) error {
				return c.execute(ctx, e, p, cvs.ShowChanges{Location: e.location})
			})
		},
	}
}

func (c *cli) smartCommitCommand() *cobra.Command {
	var (
		comment string
		op      cvs.SmartCommit
	)

	cmd := &cobra.Command{
		Use:   "smart-commit",
		Short: "Add, remove and commit reported changes in one go",
		Long: `Discover the local changes, schedule the selected uncontrolled files for
addition and the selected missing files for removal, then commit them
together with the selected modifications.

Without any selection flag every reported change is taken.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.with(cmd, func(ctx context.Context, e *env, p *printer) error {
				op := op
				op.Location = e.location

				op.Comment = comment
				if op.Comment == "" {
					op.Comment = e.runs.LastComment()
				}
				if op.Comment == "" {
					return errNoComment
				}

				var err error
				for _, selection := range []*[]string{&op.Commit, &op.Add, &op.AddBinary, &op.Remove} {
					if *selection, err = e.relativeAll(*selection); err != nil {
						return fmt.Errorf("invalid selection: %w", err)
					}
				}

				return c.execute(ctx, e, p, op)
			})
		},
	}

	cmd.Flags().StringVarP(&comment, "message", "m", "", "Commit comment")
	cmd.Flags().StringSliceVar(&op.Commit, "commit", nil, "Modified, added or removed file to commit")
	cmd.Flags().StringSliceVar(&op.Add, "add", nil, "Uncontrolled file to add as text")
	cmd.Flags().StringSliceVar(&op.AddBinary, "add-binary", nil, "Uncontrolled file to add as binary")
	cmd.Flags().StringSliceVar(&op.Remove, "remove", nil, "Missing file to remove")

	return cmd
}
