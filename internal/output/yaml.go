package output

import (
	"io"

	"github.com/aryankumar/podcleaner/internal/cluster"
	"github.com/aryankumar/podcleaner/internal/fleet"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	options *Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(opts *Options) *YAMLFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &YAMLFormatter{
		options: opts,
	}
}

// Format outputs a single data item as YAML
func (f *YAMLFormatter) Format(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(data)
}

// FormatQuery outputs a query report as YAML
func (f *YAMLFormatter) FormatQuery(w io.Writer, result *fleet.QueryResult) error {
	return f.Format(w, NewQueryReport(result))
}

// FormatMutation outputs a deletion report as YAML
func (f *YAMLFormatter) FormatMutation(w io.Writer, result *fleet.MutationResult) error {
	return f.Format(w, NewMutationReport(result))
}

// FormatClusterInfo outputs cluster metadata as YAML
func (f *YAMLFormatter) FormatClusterInfo(w io.Writer, infos []cluster.Info) error {
	if infos == nil {
		infos = []cluster.Info{}
	}
	return f.Format(w, infos)
}
