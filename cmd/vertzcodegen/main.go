package main

import (
	"fmt"
	"os"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/spf13/cobra"

	"github.com/vertz-dev/codegen"
	"github.com/vertz-dev/codegen/internal/ir"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vertzcodegen",
		Short: "Generate TypeScript types, a client SDK and CLI manifest from an App IR",
	}
	root.AddCommand(newGenerateCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var appIRPath string
	var configPath string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the codegen pipeline against an App IR document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(appIRPath, configPath)
		},
	}

	cmd.Flags().StringVar(&appIRPath, "app-ir", "", "path to a JSON file matching the App IR shape")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a JSON file matching the pipeline config")
	_ = cmd.MarkFlagRequired("app-ir")

	return cmd
}

func runGenerate(appIRPath, configPath string) error {
	appData, err := os.ReadFile(appIRPath)
	if err != nil {
		return fmt.Errorf("reading --app-ir: %w", err)
	}
	app, err := ir.Decode(appData)
	if err != nil {
		return fmt.Errorf("decoding --app-ir: %w", err)
	}

	cfg := codegen.Config{Generators: []string{codegen.GeneratorTypeScript}}
	if configPath != "" {
		cfgData, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("reading --config: %w", err)
		}
		if err := jsonv2.Unmarshal(cfgData, &cfg); err != nil {
			return fmt.Errorf("decoding --config: %w", err)
		}
	}

	result, err := (codegen.Pipeline{}).Generate(app, cfg)
	if err != nil {
		return err
	}

	outputDir := (codegen.Pipeline{}).ResolveOutputDir(cfg)
	fmt.Printf("generated %d file(s) at %s\n", result.FileCount, outputDir)
	if result.Incremental != nil {
		fmt.Printf("written: %d, skipped: %d, removed: %d\n",
			len(result.Incremental.Written), len(result.Incremental.Skipped), len(result.Incremental.Removed))
	}
	return nil
}
