package output

import (
	"encoding/json"
	"io"

	"github.com/aryankumar/podcleaner/internal/cluster"
	"github.com/aryankumar/podcleaner/internal/fleet"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	options *Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts *Options) *JSONFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &JSONFormatter{
		options: opts,
	}
}

// Format outputs a single data item as JSON
func (f *JSONFormatter) Format(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// FormatQuery outputs a query report as JSON
func (f *JSONFormatter) FormatQuery(w io.Writer, result *fleet.QueryResult) error {
	return f.Format(w, NewQueryReport(result))
}

// FormatMutation outputs a deletion report as JSON
func (f *JSONFormatter) FormatMutation(w io.Writer, result *fleet.MutationResult) error {
	return f.Format(w, NewMutationReport(result))
}

// FormatClusterInfo outputs cluster metadata as JSON
func (f *JSONFormatter) FormatClusterInfo(w io.Writer, infos []cluster.Info) error {
	if infos == nil {
		infos = []cluster.Info{}
	}
	return f.Format(w, infos)
}
