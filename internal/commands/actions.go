// Package commands implements the labreport command line actions.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"lab-report-reader/internal/config"
	"lab-report-reader/internal/domain"
	"lab-report-reader/internal/extraction"
	"lab-report-reader/internal/service"
	"lab-report-reader/pkg/logger"
)

// Output formats accepted by --format
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatXLSX = "xlsx"
)

// Report is what the extract command emits for json output
type Report struct {
	Document   *domain.ExtractedDocument `json:"document"`
	Extraction domain.ExtractionResult   `json:"extraction"`
}

// NewApp builds the labreport CLI
func NewApp() *cli.App {
	return &cli.App{
		Name:  "labreport",
		Usage: "extract patient details and test results from lab report documents",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "debug, info, warn or error (logs go to stderr)"},
			&cli.StringFlag{Name: "patterns", Usage: "YAML file with additional test patterns", EnvVars: []string{"PATTERNS_FILE"}},
		},
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Usage:     "extract text and entities from a report",
				ArgsUsage: "<path>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: FormatJSON, Usage: "json, text or xlsx"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write to a file instead of stdout (required for xlsx)"},
					&cli.StringSliceFlag{Name: "ext", Usage: "accepted extensions, e.g. --ext .pdf --ext .txt (default from SUPPORTED_EXTENSIONS)"},
					&cli.BoolFlag{Name: "include-text", Usage: "include the raw document text in json output"},
				},
				Action: ExtractAction,
			},
			{
				Name:   "patterns",
				Usage:  "print the active test pattern table as YAML, in match order",
				Action: PatternsAction,
			},
		},
	}
}

func newLogger(c *cli.Context) domain.Logger {
	return logger.NewLoggerWithWriter(c.String("log-level"), os.Stderr)
}

// ExtractAction runs the document and entity extractors over one file
func ExtractAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("missing <path> argument")
	}

	format := strings.ToLower(c.String("format"))
	switch format {
	case FormatJSON, FormatText:
	case FormatXLSX:
		if c.String("output") == "" {
			return fmt.Errorf("--output is required for xlsx")
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	log := newLogger(c)
	patterns, err := extraction.LoadPatternFile(c.String("patterns"))
	if err != nil {
		return err
	}

	extensions := c.StringSlice("ext")
	if len(extensions) == 0 {
		extensions = config.NewConfig().GetSupportedExtensions()
	}

	doc, err := service.NewDocumentExtractor(extensions, log).ExtractWithMetadata(path)
	if err != nil {
		return err
	}
	result := extraction.NewEntityExtractor(patterns, log).ExtractAll(doc.Text)

	var data []byte
	switch format {
	case FormatJSON:
		if !c.Bool("include-text") {
			doc.Text = ""
		}
		data, err = json.MarshalIndent(Report{Document: doc, Extraction: result}, "", "  ")
		data = append(data, '\n')
	case FormatText:
		data, err = renderText(doc, result)
	case FormatXLSX:
		data, err = service.BuildWorkbook(result)
	}
	if err != nil {
		return err
	}

	return writeOutput(c, data)
}

// PatternsAction prints the pattern table in the same YAML shape that
// --patterns accepts
func PatternsAction(c *cli.Context) error {
	patterns, err := extraction.LoadPatternFile(c.String("patterns"))
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(extraction.PatternFile{Tests: extraction.Entries(patterns)})
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(data)
	return err
}

func writeOutput(c *cli.Context, data []byte) error {
	if out := c.String("output"); out != "" {
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		return nil
	}
	_, err := c.App.Writer.Write(data)
	return err
}

var patientLabels = map[string]string{
	domain.PatientName:           "Name",
	domain.PatientID:             "Patient ID",
	domain.PatientAge:            "Age",
	domain.PatientGender:         "Gender",
	domain.PatientCollectionDate: "Date of Collection",
	domain.PatientReportDate:     "Report Date",
}

func renderText(doc *domain.ExtractedDocument, result domain.ExtractionResult) ([]byte, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "File: %s (%d pages, %d words)\n\n", doc.Filename, doc.PageCount, doc.WordCount)

	sb.WriteString("Patient\n")
	keys := make([]string, 0, len(result.PatientInfo))
	for k := range result.PatientInfo {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		label := patientLabels[k]
		if label == "" {
			label = k
		}
		fmt.Fprintf(&sb, "  %s: %s\n", label, result.PatientInfo[k])
	}

	fmt.Fprintf(&sb, "\nTests (%d)\n", result.TotalTests)
	if err := writeTestTable(&sb, result.TestResults); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

func writeTestTable(w io.Writer, results []domain.TestResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  TEST\tVALUE\tUNIT\tNORMAL RANGE")
	for _, r := range results {
		fmt.Fprintf(tw, "  %s\t%g\t%s\t%s\n", r.TestName, r.Value, r.Unit, r.NormalRange)
	}
	return tw.Flush()
}
