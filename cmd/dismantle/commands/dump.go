package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/dismantle/errors"
	"github.com/teranos/dismantle/expand"
)

var dumpFormat string

// DumpCmd prints the field classification of a file
var DumpCmd = &cobra.Command{
	Use:   "dump <file.rs>",
	Short: "Show how each field of each #[dismantle] struct is classified",
	Long: `Print a report of every #[dismantle] struct in a file: its generic
parameters, and for each field its type, whether it depends on the generic
parameters, and which of them it uses. Dependent fields become associated
types of the generated protocol trait.

Examples:
  dismantle dump src/shapes.rs
  dismantle dump src/shapes.rs --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	DumpCmd.Flags().StringVar(&dumpFormat, "format", "yaml", "Output format: yaml, json")
}

type dumpReport struct {
	File  string     `yaml:"file" json:"file"`
	Items []dumpItem `yaml:"items" json:"items"`
}

type dumpItem struct {
	Record   string      `yaml:"record,omitempty" json:"record,omitempty"`
	Line     int         `yaml:"line" json:"line"`
	Generics []string    `yaml:"generics,omitempty" json:"generics,omitempty"`
	Assoc    []string    `yaml:"associated_types,omitempty" json:"associated_types,omitempty"`
	Fields   []dumpField `yaml:"fields,omitempty" json:"fields,omitempty"`
	Error    string      `yaml:"error,omitempty" json:"error,omitempty"`
}

type dumpField struct {
	Ident     string   `yaml:"ident" json:"ident"`
	Type      string   `yaml:"type" json:"type"`
	Dependent bool     `yaml:"dependent" json:"dependent"`
	Generics  []string `yaml:"generics,omitempty" json:"generics,omitempty"`
}

func runDump(cmd *cobra.Command, args []string) error {
	path := args[0]
	res, err := expandPath(cmd.Context(), path)
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), buildReport(path, res), dumpFormat)
}

func buildReport(path string, res *expand.Result) dumpReport {
	report := dumpReport{File: path, Items: make([]dumpItem, 0, len(res.Items))}
	for _, it := range res.Items {
		item := dumpItem{Line: it.Range.Start.Line}
		if it.Err != nil {
			item.Error = it.Err.Error()
			report.Items = append(report.Items, item)
			continue
		}
		cls := it.Result.Classification
		item.Record = cls.Record
		for _, g := range cls.Generics {
			item.Generics = append(item.Generics, g.Name)
		}
		for _, a := range it.Result.Namespace.Contract.Assoc {
			item.Assoc = append(item.Assoc, a.Ident)
		}
		for _, f := range cls.Fields {
			item.Fields = append(item.Fields, dumpField{
				Ident:     f.Field.Ident,
				Type:      f.Field.Rendered,
				Dependent: f.Dependent,
				Generics:  f.GenericNames(),
			})
		}
		report.Items = append(report.Items, item)
	}
	return report
}

func writeReport(w io.Writer, report dumpReport, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "failed to encode report")
		}
		return enc.Close()
	case "json":
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode report")
		}
		fmt.Fprintln(w, string(out))
		return nil
	default:
		return errors.WithHint(errors.Newf("unknown format %q", format), "use yaml or json")
	}
}
