package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/schemabloom/schemabloom"
)

var (
	format       string
	verbose      bool
	exportFormat string
	exportOutput string
)

var rootCmd = &cobra.Command{
	Use:   "schemabloom",
	Short: "Generate ORM models from JSON schema definitions",
	Long:  `SchemaBloom converts declarative JSON schema documents into ORM source artifacts for Prisma, Django, SQLAlchemy, or GORM.`,
}

var generateCmd = &cobra.Command{
	Use:   "generate <schema.json> <output-dir>",
	Short: "Generate ORM models from a schema document",
	Args:  cobra.ExactArgs(2),
	RunE:  runGenerate,
}

var validateCmd = &cobra.Command{
	Use:   "validate <schema.json>",
	Short: "Validate a schema document",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported output formats",
	Args:  cobra.NoArgs,
	RunE:  runFormats,
}

var exportCmd = &cobra.Command{
	Use:   "export <schema.json>",
	Short: "Export a validated schema document as YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var watchCmd = &cobra.Command{
	Use:   "watch <schema.json> <output-dir>",
	Short: "Watch a schema file and regenerate models on change",
	Args:  cobra.ExactArgs(2),
	RunE:  runWatch,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the schemabloom version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("schemabloom version %s\n", schemabloom.Version)
	},
}

func init() {
	generateCmd.Flags().StringVarP(&format, "format", "f", "prisma", "Output format: "+formatNames())
	generateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	validateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "yaml", "Export format: yaml or json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")

	watchCmd.Flags().StringVarP(&format, "format", "f", "prisma", "Output format: "+formatNames())

	rootCmd.AddCommand(generateCmd, validateCmd, formatsCmd, exportCmd, watchCmd, versionCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	inputFile, outputDir := args[0], args[1]

	if verbose {
		fmt.Printf("Generating %s models from %s into %s\n", format, inputFile, outputDir)
	}

	result, err := schemabloom.Generate(inputFile, outputDir, strings.ToLower(format))
	if err != nil {
		return err
	}

	if verbose {
		fmt.Printf("Files created: %d\n", len(result.FilesCreated))
		for _, f := range result.FilesCreated {
			fmt.Printf("  %s\n", f)
		}
		fmt.Printf("Execution time: %s\n", result.Duration.Round(time.Millisecond))
	} else {
		fmt.Printf("Models generated successfully in %s\n", result.OutputDir)
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	res, err := schemabloom.ValidateFile(args[0])
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if !res.IsValid {
		fmt.Fprintln(os.Stderr, "Schema contains errors:")
		for _, e := range res.Errors {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		return fmt.Errorf("schema is invalid (%d error(s))", len(res.Errors))
	}

	fmt.Println("Schema is valid")
	if verbose {
		fmt.Printf("Tables: %d\n", res.TableCount)
		fmt.Printf("Relationships: %d\n", res.RelationshipCount)
	}
	return nil
}

func runFormats(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FORMAT\tFRAMEWORK\tEXTENSION\tDESCRIPTION")
	for _, info := range schemabloom.Formats() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Name, info.Framework, info.Extension, info.Description)
	}
	return w.Flush()
}

func runExport(cmd *cobra.Command, args []string) error {
	out := os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
			}
		}()
		out = f
	}
	return schemabloom.Export(args[0], out, strings.ToLower(exportFormat))
}

func runWatch(cmd *cobra.Command, args []string) error {
	inputFile, outputDir := args[0], args[1]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s for changes (format: %s, output: %s)\n", inputFile, format, outputDir)
	fmt.Println("Press Ctrl+C to stop")

	err := schemabloom.Watch(ctx, inputFile, outputDir, strings.ToLower(format), func(result *schemabloom.GenerateResult, err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "regeneration failed: %v\n", err)
			return
		}
		fmt.Printf("Regenerated %d file(s) in %s\n", len(result.FilesCreated), result.Duration.Round(time.Millisecond))
	})
	if errors.Is(err, context.Canceled) {
		fmt.Println("\nStopped watching")
		return nil
	}
	return err
}

func formatNames() string {
	infos := schemabloom.Formats()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return strings.Join(names, ", ")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
