package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wippyai/dotnet-shim/hostfxr"
)

func newLocateCommand(errOut io.Writer) *cobra.Command {
	var load bool

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Print the hostfxr library the plugin would be hosted with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, errOut)
			if err != nil {
				return err
			}
			opts := e.cfg.LocateOptions(e.layout.AssemblyPath())

			if !load {
				path, err := hostfxr.Locate(opts)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}

			// Start the runtime to prove the config and library fit together.
			loader := hostfxr.NewLoader(hostfxr.WithLocateOptions(opts))
			if _, err := loader.Resolve(e.layout.ConfigPath()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loader.LibraryPath())
			fmt.Fprintf(cmd.OutOrStdout(), "runtime ready: %v\n", loader.Ready())
			return nil
		},
	}
	cmd.Flags().BoolVar(&load, "load", false, "also load the library and start the runtime from the plugin's runtimeconfig")
	return cmd
}
