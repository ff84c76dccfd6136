package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/jobfit/internal/ingestion"
	"github.com/jonathan/jobfit/internal/matching"
	"github.com/jonathan/jobfit/internal/schemas"
	"github.com/jonathan/jobfit/internal/types"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Score how well a résumé fits a job description",
	Long: `Score a résumé (JSON) against a job description given as plain text, a saved HTML
page or a URL, and print the fit score as JSON.`,
	RunE: runFit,
}

type fitOptions struct {
	resumeFile string
	jobFile    string
	url        string
	htmlFile   string
	browser    bool
	save       bool
}

var fitOpts fitOptions

func init() {
	fitCmd.Flags().StringVarP(&fitOpts.resumeFile, "resume", "r", "", "Path to résumé JSON (required)")
	fitCmd.Flags().StringVarP(&fitOpts.jobFile, "job-file", "j", "", "Path to job description text")
	fitCmd.Flags().StringVarP(&fitOpts.url, "url", "u", "", "URL of the job page")
	fitCmd.Flags().StringVarP(&fitOpts.htmlFile, "html-file", "f", "", "Path to a saved HTML job page")
	fitCmd.Flags().BoolVar(&fitOpts.browser, "browser", false, "Render pages with thin HTTP bodies in headless Chrome")
	fitCmd.Flags().BoolVar(&fitOpts.save, "save", false, "Store the job description and fit score (requires database_url)")

	_ = fitCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(fitCmd)
}

func runFit(cmd *cobra.Command, _ []string) error {
	if err := fitOpts.check(); err != nil {
		return err
	}
	a, err := setup(cmd, fitOpts.save)
	if err != nil {
		return err
	}
	defer a.close()

	return a.fit(cmd.Context(), fitOpts)
}

func (o fitOptions) check() error {
	if o.jobFile == "" && o.url == "" && o.htmlFile == "" {
		return fmt.Errorf("one of --job-file, --url or --html-file must be provided")
	}
	if o.jobFile != "" && (o.url != "" || o.htmlFile != "") {
		return fmt.Errorf("--job-file cannot be combined with --url or --html-file")
	}
	return nil
}

func (a *app) fit(ctx context.Context, opts fitOptions) error {
	raw, err := readFile(opts.resumeFile, "résumé")
	if err != nil {
		return err
	}
	resume, err := schemas.DecodeResumeData(raw)
	if err != nil {
		return fmt.Errorf("invalid résumé %s: %w", opts.resumeFile, err)
	}

	jobText, page, saveURL, err := a.jobSource(ctx, opts)
	if err != nil {
		return err
	}

	scorer := a.scorer()
	if a.printer != nil {
		if b := scorer.Analyze(jobText, page, resume); b != nil {
			a.printer.PrintJobData(&b.Job)
		}
	}

	result := scorer.Score(jobText, page, resume)
	if result == nil {
		return fmt.Errorf("fit score not applicable: job description is empty")
	}
	if a.printer != nil {
		a.printer.PrintFitScore(result)
	}

	if a.store != nil && saveURL != "" {
		if err := a.store.SaveFitScore(ctx, saveURL, result); err != nil {
			a.logger.Warn("failed to store fit score", zap.String("url", saveURL), zap.Error(err))
		}
	}

	return a.writeJSON(result)
}

// jobSource resolves the job description text and page hints, plus the URL
// the fit score belongs to when it was located or carried over.
func (a *app) jobSource(ctx context.Context, opts fitOptions) (string, matching.PageInfo, string, error) {
	if opts.jobFile != "" {
		text, err := readFile(opts.jobFile, "job description")
		if err != nil {
			return "", matching.PageInfo{}, "", err
		}
		return string(text), matching.PageInfo{}, "", nil
	}

	svc := a.ingestion(opts.browser)
	lopts := locateOptions{htmlFile: opts.htmlFile}
	if opts.url != "" {
		lopts.urls = []string{opts.url}
	}
	res, err := a.locateOne(ctx, svc, lopts)
	if err != nil {
		return "", matching.PageInfo{}, "", err
	}
	if a.printer != nil {
		a.printer.PrintRecord(res.Record, string(res.Source))
	}

	saveURL := res.URL
	if res.Source == ingestion.SourceCarriedOver {
		saveURL = res.CarriedFrom
	}
	return recordText(res.Record), matching.PageInfoFromDocument(res.Document), saveURL, nil
}

func recordText(rec *types.JobDescriptionRecord) string {
	if rec == nil {
		return ""
	}
	return rec.Text
}
