package cmd

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/KaramelBytes/shadowdb-cli/internal/store"
	"github.com/KaramelBytes/shadowdb-cli/internal/utils"
	"github.com/spf13/cobra"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List, inspect or delete saved snapshots",
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshots, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		list, err := s.List(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "(no snapshots)")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "id\tname\tprimary_key\trows\tcreated")
		for _, sm := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", sm.DataSourceID, sm.Name, sm.PrimaryKey, sm.Rows, sm.CreatedAt.Local().Format(time.DateTime))
		}
		return tw.Flush()
	},
}

var snapshotsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a snapshot as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		p, err := s.Load(ctx, args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("snapshot %s not found", args[0])
		}
		if err != nil {
			return err
		}
		b, err := utils.PrettyJSON(p)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

var snapshotsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Delete(ctx, args[0]); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("snapshot %s not found", args[0])
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted snapshot %s\n", args[0])
		return nil
	},
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	rootCmd.AddCommand(snapshotsCmd)
	snapshotsCmd.AddCommand(snapshotsListCmd)
	snapshotsCmd.AddCommand(snapshotsShowCmd)
	snapshotsCmd.AddCommand(snapshotsDeleteCmd)
}
