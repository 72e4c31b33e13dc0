package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sitegen_server/internal/cache"
)

func cacheCmd(configDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or invalidate the artifact cache",
	}
	cmd.AddCommand(cacheListCmd(configDir), cacheInvalidateCmd(configDir))
	return cmd
}

func cacheListCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tVERSION\tSIZE")
			for _, art := range a.store.List() {
				fmt.Fprintf(tw, "%s\t%d\t%d\n", cache.Key(art.Name, art.Style, art.Tech), art.Version, len(art.Code))
			}
			return tw.Flush()
		},
	}
}

func cacheInvalidateCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate <key>",
		Short: "Remove one cached artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configDir)
			if err != nil {
				return err
			}
			defer a.Close()

			removed, err := a.store.Invalidate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("no cache entry %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Invalidated", args[0])
			return nil
		},
	}
}
