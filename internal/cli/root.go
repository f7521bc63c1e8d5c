// Package cli implements cvsctl, the command line front end of the runs
// service.
package cli

import (
	"fmt"
	"os"

	"github.com/cvsbridge/cvsbridge/internal/process"
	"github.com/spf13/cobra"
)

type Options struct {
	Version string
	// Runner replaces the client process runner, tests use a scripted one.
	Runner process.Runner
}

type globalFlags struct {
	root      string
	workDir   string
	binary    string
	dataDir   string
	ephemeral bool
	verbose   bool
}

type cli struct {
	options Options
	flags   globalFlags
}

// NewRootCommand builds the cvsctl command tree.
func NewRootCommand(options Options) *cobra.Command {
	if options.Version == "" {
		options.Version = "dev"
	}

	c := &cli{options: options}

	root := &cobra.Command{
		Use:   "cvsctl",
		Short: "Runs CVS client operations on a local working copy.",
		Long: `cvsctl drives the CVS command line client on a working copy and keeps
a journal of every operation it runs.

Paths are relative to the working directory given with -C, or to the
current directory when -C is omitted.`,
		Version:       options.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(`{{.Use}} version {{.Version}}` + "\n")

	flags := root.PersistentFlags()
	flags.StringVarP(&c.flags.root, "root", "d", "", "Repository root (CVSROOT); defaults to cvs.default_root")
	flags.StringVarP(&c.flags.workDir, "workdir", "C", "", "Working copy directory (default is the current directory)")
	flags.StringVar(&c.flags.binary, "cvs", "", "CVS client executable; defaults to cvs.binary")
	flags.StringVar(&c.flags.dataDir, "data-dir", "", "Journal directory; defaults to storage.data_dir")
	flags.BoolVar(&c.flags.ephemeral, "ephemeral", false, "Keep the journal in memory only")
	flags.BoolVarP(&c.flags.verbose, "verbose", "v", false, "Enable debug logging and print the client output")

	root.AddCommand(
		c.addCommand(),
		c.removeCommand(),
		c.commitCommand(),
		c.checkoutCommand(),
		c.updateCommand(),
		c.compareCommand(),
		c.showChangesCommand(),
		c.smartCommitCommand(),
		c.statusCommand(),
		c.watchCommand(),
		c.historyCommand(),
		c.showCommand(),
	)

	return root
}

func (c *cli) workDir() (string, error) {
	if c.flags.workDir != "" {
		return c.flags.workDir, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}
