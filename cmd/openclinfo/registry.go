package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/openclinfo/internal/registry"
)

var registryStrict bool

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect and invoke plugin registry entries",
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered paths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := buildRegistry()
		if err != nil {
			return err
		}
		for _, p := range reg.Paths() {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

var registryCallCmd = &cobra.Command{
	Use:   "call <path>",
	Short: "Invoke a registered call and print its output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := buildRegistry()
		if err != nil {
			return err
		}
		out, err := reg.Call(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	registryCmd.PersistentFlags().BoolVar(&registryStrict, "strict", false, "Registered calls fail on partial enumerations")
	registryCmd.AddCommand(registryListCmd)
	registryCmd.AddCommand(registryCallCmd)
	rootCmd.AddCommand(registryCmd)
}

// buildRegistry creates a registry with every plugin of this binary registered.
func buildRegistry() (*registry.Registry, error) {
	enumerator, err := newEnumerator()
	if err != nil {
		return nil, err
	}
	reg := registry.New()
	if err := registry.Init(reg, enumerator, registry.Options{Strict: registryStrict}); err != nil {
		return nil, fmt.Errorf("failed to register opencl info: %w", err)
	}
	return reg, nil
}
