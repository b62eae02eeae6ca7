package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
)

func (a *app) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [dir]",
		Short: "Copy the data file into a directory",
		Long: `Copy the data file into a directory, keeping its name.
The directory defaults to export_dir from the config. An existing file is
never replaced unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.ExportDir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return errors.New("no export directory given (pass one or set export_dir in the config)")
			}
			force, _ := cmd.Flags().GetBool("force")

			dest, err := a.svc.Export(dir, force)
			if errors.Is(err, fs.ErrExist) {
				return fmt.Errorf("%w (use --force to replace it)", err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", dest)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Replace an existing file")
	return cmd
}

func (a *app) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Open the data file in its default application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.svc.Path()
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("data file not available: %w", err)
			}
			if err := openInDefaultApp(path).Start(); err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", path)
			return nil
		},
	}
}

func (a *app) pathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the data file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.svc.Path())
			return nil
		},
	}
}

func openInDefaultApp(path string) *exec.Cmd {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path)
	case "darwin":
		return exec.Command("open", path)
	default:
		return exec.Command("xdg-open", path)
	}
}
