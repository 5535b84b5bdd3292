package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kingrea/changeset/internal/config"
	"github.com/kingrea/changeset/internal/logbook"
	"github.com/kingrea/changeset/internal/workspace"
)

func initCmd(st streams, global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the .changeset directory with a default config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logbook.New(st.out, st.errOut)
			root, err := workspaceRoot(global.cwd)
			if err != nil {
				return err
			}
			created, err := config.Init(root)
			if err != nil {
				return err
			}
			dir := filepath.Join(root, config.ChangesetDir)
			if !created {
				log.Warn("It looks like you already have changesets initialized. You should be able to run changeset commands no problems.")
				return nil
			}
			log.Log("%s", log.Green("Thanks for choosing changesets to help manage your versioning and publishing"))
			log.Info("Created %s", log.Blue(dir))
			return nil
		},
	}
}

// workspaceRoot is the workspace root above dir, or dir itself when there is
// no package.json yet.
func workspaceRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve cwd: %w", err)
	}
	pkgs, err := workspace.Load(abs)
	if errors.Is(err, workspace.ErrNoManifest) {
		return abs, nil
	}
	if err != nil {
		return "", err
	}
	return pkgs.Root, nil
}
