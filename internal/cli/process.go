package cli

import (
	"fmt"
	"os"

	"skillparse/internal/ai"
	"skillparse/internal/formatters"
	"skillparse/internal/pipeline"
	"skillparse/internal/store"
	"skillparse/internal/utils"

	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process [resume.pdf]",
	Short: "Process a PDF resume into a candidate record",
	Long: `Process a PDF resume file into a structured candidate record.
The candidate's name, skills, seniority and qualification are extracted with
an AI model (falling back to rule-based parsing when the model fails) and
scored for frontend and backend roles.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if processOutputFormat == "" {
			processOutputFormat = cfg.App.DefaultFormat
		}
		return validateOutputFormat(processOutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runProcess,
}

var (
	processOutputFile   string
	processOutputFormat string
	processStoreResult  bool
)

func init() {
	processCmd.Flags().StringVarP(&processOutputFile, "output", "o", "", "Output file path (default: stdout)")
	processCmd.Flags().StringVar(&processOutputFormat, "format", "", "Output format: json, text, or markdown")
	processCmd.Flags().BoolVar(&processStoreResult, "store", false, "Persist the candidate record to the database")

	_ = processCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	inputFile := args[0]
	if err := utils.ValidateInputFile(inputFile); err != nil {
		return err
	}
	if !utils.IsPDFFile(inputFile) {
		return fmt.Errorf("unsupported input file %s: only .pdf files are accepted", inputFile)
	}
	if err := utils.ValidateOutputFile(processOutputFile); err != nil {
		return err
	}

	data, err := os.ReadFile(inputFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputFile, err)
	}

	logger.Info("Processing resume",
		"file", inputFile,
		"size", utils.FormatFileSize(int64(len(data))),
		"output_format", processOutputFormat)

	aiService, err := ai.NewService(&cfg.AI, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() {
		if err := aiService.Close(); err != nil {
			logger.LogError(err, "Failed to close AI service")
		}
	}()

	result, err := pipeline.New(aiService.Provider, logger).ProcessResume(cmd.Context(), data)
	if err != nil {
		return fmt.Errorf("failed to process resume: %w", err)
	}
	if result.UsedFallback {
		logger.Info("Candidate extracted with rule-based fallback")
	}

	if processStoreResult {
		if err := storeCandidate(cmd, result); err != nil {
			return err
		}
	}

	output, err := formatters.NewFormatterRegistry().Format(result.Record, processOutputFormat)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if processOutputFile != "" {
		if err := os.WriteFile(processOutputFile, []byte(output), 0600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Info("Candidate record written", "file", processOutputFile)
		return nil
	}

	fmt.Println(output)
	return nil
}

// storeCandidate persists a processed record when --store is set
func storeCandidate(cmd *cobra.Command, result pipeline.Result) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	candidateStore, err := store.Open(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to open candidate store: %w", err)
	}
	defer func() {
		if err := candidateStore.Close(); err != nil {
			logger.LogError(err, "Failed to close candidate store")
		}
	}()

	if err := candidateStore.EnsureSchema(cmd.Context()); err != nil {
		return fmt.Errorf("failed to prepare candidate schema: %w", err)
	}

	stored, err := candidateStore.Save(cmd.Context(), result.Record)
	if err != nil {
		return fmt.Errorf("failed to store candidate: %w", err)
	}

	logger.Info("Candidate stored", "id", stored.ID.String())
	return nil
}
