package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAlivetestCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "alivetest",
		Short: "Check whether the service answers alivetest.php",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := root.newClient()
			if err != nil {
				return err
			}
			if err := c.SendAlivetest(cmd.Context()); err != nil {
				return err
			}
			st := newStyles(cmd.OutOrStdout())
			_, err = fmt.Fprintln(cmd.OutOrStdout(), st.selected.Render("alive"))
			return err
		},
	}
}
