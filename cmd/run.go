package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/doclake/core"
	"github.com/gaurav-prasanna/doclake/core/config"
	"github.com/gaurav-prasanna/doclake/core/dataset"
	"github.com/gaurav-prasanna/doclake/core/fetch"
	"github.com/gaurav-prasanna/doclake/core/upload"
	"github.com/gaurav-prasanna/doclake/pipeline"
)

var (
	jobFile     string
	backend     string
	localDir    string
	concurrency int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one ingestion job from a JSON descriptor",
	RunE:  runJob,
}

func init() {
	runCmd.Flags().StringVar(&jobFile, "job", "", "path to the job JSON descriptor (required)")
	runCmd.Flags().StringVar(&backend, "backend", "gcs", "storage backend: gcs or local")
	runCmd.Flags().StringVar(&localDir, "local-dir", "./data", "base directory for the local backend")
	runCmd.Flags().IntVar(&concurrency, "concurrency", 1, "how many candidates to process at once")
	runCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(runCmd)
}

func runJob(cmd *cobra.Command, args []string) error {
	// A missing .env is fine, the environment may already be set.
	godotenv.Load()

	data, err := os.ReadFile(jobFile)
	if err != nil {
		return fmt.Errorf("reading job file: %w", err)
	}
	job, err := config.Parse(data)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var uploader core.Uploader
	switch backend {
	case "gcs":
		gcs, err := upload.NewGCS(ctx)
		if err != nil {
			return err
		}
		defer gcs.Close()
		uploader = gcs
	case "local":
		uploader = upload.NewLocalDir(localDir)
	default:
		return fmt.Errorf("unknown backend %q (want gcs or local)", backend)
	}

	runner := pipeline.New(fetch.New(), uploader,
		pipeline.WithConcurrency(concurrency))
	report, err := runner.Run(ctx, job)
	if err != nil {
		if errors.Is(err, pipeline.ErrMissingDatasetName) {
			return fmt.Errorf("%w (suggestion for this source: %q)",
				err, dataset.Infer(job.SourceURL, job.JobName))
		}
		return err
	}

	if report.ManifestURI != "" {
		fmt.Fprintln(cmd.OutOrStdout(), report.ManifestURI)
	}
	for _, c := range report.Candidates {
		if c.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %-9s %s: %v\n", c.Step, c.URL, c.Err)
			continue
		}
		for _, uri := range c.URIs {
			fmt.Fprintln(cmd.OutOrStdout(), uri)
		}
	}
	return nil
}
