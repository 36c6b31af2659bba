package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wippyai/dotnet-shim/plugin"
)

func newNamesCommand(errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "names [custom-function...]",
		Short: "Print the entry points and delegate types resolved for the plugin",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, errOut)
			if err != nil {
				return err
			}
			typeName := e.layout.TypeName()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "type\t%s\n", typeName)
			fmt.Fprintf(w, "assembly\t%s\n", e.layout.AssemblyPath())
			fmt.Fprintf(w, "config\t%s\n", e.layout.ConfigPath())

			write := func(method string, op plugin.Operation) error {
				delegate, err := plugin.DelegateTypeName(typeName, op.DelegateSuffix())
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\n", method, delegate)
				return nil
			}
			for _, op := range plugin.Operations {
				if err := write(string(op), op); err != nil {
					return err
				}
			}
			for _, name := range args {
				if err := write(name, plugin.OpCustomFunc); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}
}
