package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/grobinson/webminer/internal/pipeline"
	"github.com/grobinson/webminer/internal/processor"
	"github.com/grobinson/webminer/internal/query"
)

// filterFlags collects the mutually exclusive filter options.
type filterFlags struct {
	text          string
	caseSensitive bool
	regex         string
	urlRegex      string
	metaKey       string
	metaValue     string
}

// build turns the flags into a query, enforcing that at most one
// filter family is used.
func (f filterFlags) build() (query.Query, error) {
	families := 0
	if f.text != "" {
		families++
	}
	if f.regex != "" {
		families++
	}
	if f.urlRegex != "" {
		families++
	}
	if f.metaKey != "" || f.metaValue != "" {
		families++
	}
	if families > 1 {
		return nil, fmt.Errorf("at most one filter may be used per invocation")
	}

	switch {
	case f.text != "":
		return query.NewText(f.text, f.caseSensitive), nil
	case f.regex != "":
		q, err := query.NewRegex(f.regex)
		if err != nil {
			return nil, fmt.Errorf("invalid --filter-regex: %w", err)
		}
		return q, nil
	case f.urlRegex != "":
		q, err := query.NewURLRegex(f.urlRegex)
		if err != nil {
			return nil, fmt.Errorf("invalid --filter-url-regex: %w", err)
		}
		return q, nil
	case f.metaKey != "" || f.metaValue != "":
		if f.metaKey == "" || f.metaValue == "" {
			return nil, fmt.Errorf("--filter-meta-key and --filter-meta-value must be used together")
		}
		return query.NewMetadata(f.metaKey, f.metaValue), nil
	}
	return nil, nil
}

var procFilters filterFlags

// newProcessCmd creates and configures the 'process' subcommand.
func newProcessCmd() *cobra.Command {
	var listProcessors bool
	cmd := &cobra.Command{
		Use:   "process <input-dir>",
		Short: "Run an extractor over downloaded pages and export the records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if listProcessors {
				p := pipeline.New(pipeline.Config{}, logger)
				defer p.Close()
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(p.Registry().Names(), "\n"))
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("an input directory is required")
			}
			applyProcessFlags(cmd)
			return runProcess(cmd.Context(), args[0], procFilters)
		},
	}
	addProcessFlags(cmd, &procFilters)
	cmd.Flags().BoolVar(&listProcessors, "list-processors", false, "print the registered processor names and exit")
	return cmd
}

// processFlagValues mirrors crawlFlagValues for the processing side.
type processFlagValues struct {
	threads       int
	processor     string
	export        string
	exportFile    string
	processorOpts []string
}

var processFlags processFlagValues

func addProcessFlags(cmd *cobra.Command, filters *filterFlags) {
	cmd.Flags().IntVar(&processFlags.threads, "processing-threads", 4, "processing workers (0 runs synchronously)")
	cmd.Flags().StringVar(&processFlags.processor, "processor-type", "generic", "processor to run over each page")
	cmd.Flags().StringVarP(&processFlags.export, "export", "e", "json", "export format: json, csv, or database")
	cmd.Flags().StringVar(&processFlags.exportFile, "export-file", "", "export target path (defaults per format)")
	cmd.Flags().StringSliceVar(&processFlags.processorOpts, "processor-config", nil, "processor option as key=value (repeatable)")
	cmd.Flags().StringVar(&filters.text, "filter-text", "", "keep records containing this text")
	cmd.Flags().BoolVar(&filters.caseSensitive, "filter-case-sensitive", false, "make --filter-text case sensitive")
	cmd.Flags().StringVar(&filters.regex, "filter-regex", "", "keep records whose content matches this pattern")
	cmd.Flags().StringVar(&filters.urlRegex, "filter-url-regex", "", "keep records whose URL matches this pattern")
	cmd.Flags().StringVar(&filters.metaKey, "filter-meta-key", "", "metadata key to match (with --filter-meta-value)")
	cmd.Flags().StringVar(&filters.metaValue, "filter-meta-value", "", "metadata value to match (with --filter-meta-key)")
}

func applyProcessFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("processing-threads") {
		cfg.Process.Threads = processFlags.threads
	}
	if cmd.Flags().Changed("processor-type") {
		cfg.Process.Processor = processFlags.processor
	}
	if cmd.Flags().Changed("export") {
		cfg.Process.Export = processFlags.export
	}
	if cmd.Flags().Changed("export-file") {
		cfg.Process.ExportFile = processFlags.exportFile
	}
}

// parseProcessorOptions turns repeated key=value entries into processor
// options.
func parseProcessorOptions(entries []string) (processor.Options, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	opts := make(processor.Options, len(entries))
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --processor-config entry %q, want key=value", entry)
		}
		opts[key] = value
	}
	return opts, nil
}

func defaultExportFile(format string) string {
	switch format {
	case "csv":
		return "processed_output.csv"
	case "database":
		return "processed_data.db"
	default:
		return "processed_output.json"
	}
}

// runProcess executes the processing pipeline over inputDir with the
// active configuration.
func runProcess(ctx context.Context, inputDir string, filters filterFlags) error {
	runID := uuid.NewString()
	log := logger.With(zap.String("run_id", runID), zap.String("input", inputDir))

	q, err := filters.build()
	if err != nil {
		return err
	}

	p := pipeline.New(pipeline.Config{
		InputDir: inputDir,
		Threads:  cfg.Process.Threads,
	}, log)
	defer p.Close()

	if err := p.AddProcessor(cfg.Process.Processor); err != nil {
		return err
	}
	opts, err := parseProcessorOptions(processFlags.processorOpts)
	if err != nil {
		return err
	}
	if len(opts) > 0 {
		if err := p.ConfigureProcessor(cfg.Process.Processor, opts); err != nil {
			return err
		}
	}

	records, err := p.ProcessFiltered(ctx, q)
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}
	log.Info("processing finished", zap.Int("records", len(records)))

	target := cfg.Process.ExportFile
	if target == "" {
		target = defaultExportFile(cfg.Process.Export)
	}
	switch cfg.Process.Export {
	case "json":
		err = p.ExportJSON(records, target)
	case "csv":
		err = p.ExportCSV(records, target)
	case "database":
		err = p.ExportDatabase(ctx, records, target)
	default:
		err = fmt.Errorf("unknown export format %q", cfg.Process.Export)
	}
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	log.Info("export finished", zap.String("format", cfg.Process.Export), zap.String("target", target))
	return nil
}
