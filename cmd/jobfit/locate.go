package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobfit/internal/ingestion"
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Locate the job description on a page",
	Long: `Locate the job description on a job page given by URL or saved HTML and print it as JSON.
Several --url flags locate the pages concurrently. With --save the result is stored and,
when a page has no job description, the last stored one is carried over.`,
	RunE: runLocate,
}

type locateOptions struct {
	urls     []string
	htmlFile string
	browser  bool
	save     bool
}

var locateOpts locateOptions

func init() {
	locateCmd.Flags().StringSliceVarP(&locateOpts.urls, "url", "u", nil, "URL of the job page (repeatable)")
	locateCmd.Flags().StringVarP(&locateOpts.htmlFile, "html-file", "f", "", "Path to a saved HTML page")
	locateCmd.Flags().BoolVar(&locateOpts.browser, "browser", false, "Render pages with thin HTTP bodies in headless Chrome")
	locateCmd.Flags().BoolVar(&locateOpts.save, "save", false, "Store located descriptions and enable carry-over (requires database_url)")

	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, _ []string) error {
	if err := locateOpts.check(); err != nil {
		return err
	}
	a, err := setup(cmd, locateOpts.save)
	if err != nil {
		return err
	}
	defer a.close()

	return a.locate(cmd.Context(), locateOpts)
}

func (o locateOptions) check() error {
	if len(o.urls) == 0 && o.htmlFile == "" {
		return fmt.Errorf("either --url or --html-file must be provided")
	}
	if len(o.urls) > 1 && o.htmlFile != "" {
		return fmt.Errorf("--html-file accepts a single --url naming the page it was saved from")
	}
	return nil
}

// batchOutput is one line of a multi-URL locate.
type batchOutput struct {
	URL    string            `json:"url"`
	Result *ingestion.Result `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

func (a *app) locate(ctx context.Context, opts locateOptions) error {
	svc := a.ingestion(opts.browser)

	if len(opts.urls) > 1 {
		items, err := svc.LocateMany(ctx, opts.urls)
		if err != nil {
			return fmt.Errorf("batch locate interrupted: %w", err)
		}
		out := make([]batchOutput, len(items))
		for i, item := range items {
			out[i] = batchOutput{URL: item.URL, Result: item.Result}
			if item.Err != nil {
				out[i].Error = item.Err.Error()
			}
		}
		return a.writeJSON(out)
	}

	res, err := a.locateOne(ctx, svc, opts)
	if err != nil && !errors.Is(err, ingestion.ErrNoJobDescription) {
		return err
	}

	if a.printer != nil && res != nil {
		a.printer.PrintCandidates(res.Candidates)
		a.printer.PrintRecord(res.Record, string(res.Source))
	}
	if werr := a.writeJSON(res); werr != nil {
		return werr
	}
	return err
}

// locateOne runs a single locate from a file or URL. A URL given with a file
// only names the page.
func (a *app) locateOne(ctx context.Context, svc *ingestion.Service, opts locateOptions) (*ingestion.Result, error) {
	var url string
	if len(opts.urls) == 1 {
		url = opts.urls[0]
	}
	if opts.htmlFile == "" {
		return svc.FromURL(ctx, url)
	}
	html, err := readFile(opts.htmlFile, "HTML")
	if err != nil {
		return nil, err
	}
	return svc.FromHTML(ctx, url, string(html))
}
