package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobfit/internal/dom/htmldom"
	"github.com/jonathan/jobfit/internal/formfields"
	"github.com/jonathan/jobfit/internal/schemas"
	"github.com/jonathan/jobfit/internal/types"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Detect application-form fields and plan autofill values",
	RunE:  runFields,
}

type fieldsOptions struct {
	htmlFile     string
	personalFile string
}

var fieldsOpts fieldsOptions

func init() {
	fieldsCmd.Flags().StringVarP(&fieldsOpts.htmlFile, "html-file", "f", "", "Path to a saved application page (required)")
	fieldsCmd.Flags().StringVarP(&fieldsOpts.personalFile, "personal", "p", "", "Path to personal info JSON")

	_ = fieldsCmd.MarkFlagRequired("html-file")

	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer a.close()

	return a.fields(fieldsOpts)
}

type fieldsOutput struct {
	Fields    []formfields.Field `json:"fields"`
	Questions []formfields.Field `json:"questions"`
	Fills     []formfields.Fill  `json:"fills"`
}

func (a *app) fields(opts fieldsOptions) error {
	var info *types.PersonalInfo
	if opts.personalFile != "" {
		raw, err := readFile(opts.personalFile, "personal info")
		if err != nil {
			return err
		}
		info, err = schemas.DecodePersonalInfo(raw)
		if err != nil {
			return fmt.Errorf("invalid personal info %s: %w", opts.personalFile, err)
		}
	}

	html, err := readFile(opts.htmlFile, "HTML")
	if err != nil {
		return err
	}
	doc, err := htmldom.Parse(string(html), htmldom.WithViewport(a.cfg.ViewportSize()))
	if err != nil {
		return err
	}

	out := fieldsOutput{
		Fields:    formfields.Scan(doc),
		Questions: formfields.Questions(doc),
	}
	out.Fills = formfields.Plan(out.Fields, info)

	if a.printer != nil {
		a.printer.PrintFields(out.Fields, out.Fills)
	}
	return a.writeJSON(out)
}
