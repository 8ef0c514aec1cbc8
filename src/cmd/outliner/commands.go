package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"outliner/local-app/src/pkg/data"
)

var (
	dumpCmd = &cobra.Command{
		Use:   "dump [key]",
		Short: "Print a stored outline as indented JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDump,
	}
	rmCmd = &cobra.Command{
		Use:   "rm [key]",
		Short: "Remove a stored outline",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRemove,
	}
)

func runDump(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	root, err := a.manager.Load(cmd.Context(), keyOrDefault(args))
	if err != nil {
		return err
	}

	out, err := data.EncodeIndent(root)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	key := keyOrDefault(args)
	if err := a.manager.Remove(cmd.Context(), key); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Outline '%s' removed\n", key)
	return nil
}
