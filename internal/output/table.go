package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/aryankumar/podcleaner/internal/cluster"
	"github.com/aryankumar/podcleaner/internal/fleet"
	"github.com/olekukonko/tablewriter"
	"k8s.io/apimachinery/pkg/util/duration"
)

// timeLayout is how creation timestamps and check times are displayed
const timeLayout = "2006-01-02 15:04:05"

// TableFormatter formats output as a table (kubectl-style)
type TableFormatter struct {
	options *Options

	// now is overridden in tests to make ages stable
	now func() time.Time
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
		now:     time.Now,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(f.createTable(w), v)
	case map[string]string:
		m := make(map[string]interface{}, len(v))
		for k, s := range v {
			m[k] = s
		}
		return f.formatMap(f.createTable(w), m)
	default:
		fmt.Fprintln(w, v)
		return nil
	}
}

// FormatQuery outputs a summary panel followed by one pod table per cluster with problems
func (f *TableFormatter) FormatQuery(w io.Writer, result *fleet.QueryResult) error {
	report := NewQueryReport(result)
	colors := NewColorScheme(w, f.options.NoColor)

	fmt.Fprintf(w, "Checked at: %s\n", report.CheckedAt.Format(timeLayout))
	if report.Namespace != "" {
		fmt.Fprintf(w, "Namespace: %s\n", report.Namespace)
	}

	Panel{
		Title: "Problem Pod Summary",
		Rows: []PanelRow{
			{Label: "Clusters checked", Value: strconv.Itoa(report.Summary.ClustersChecked)},
			{Label: "Clusters with problems", Value: strconv.Itoa(report.Summary.ClustersWithProblems), Alert: report.Summary.ClustersWithProblems > 0},
			{Label: "Total problem pods", Value: strconv.Itoa(report.Summary.ProblemPods), Alert: report.Summary.ProblemPods > 0},
			{Label: "Clusters failed", Value: strconv.Itoa(report.Summary.ClustersFailed), Alert: report.Summary.ClustersFailed > 0},
		},
	}.Render(w, f.noColor(colors))

	for _, entry := range report.Clusters {
		fmt.Fprintln(w)
		name := colors.ClusterName("%s", entry.Cluster)

		switch entry.State {
		case StateFailed:
			fmt.Fprintf(w, "%s: %s\n", name, colors.Error("query failed: %s", entry.Error))
		case StateHealthy:
			fmt.Fprintf(w, "%s: %s\n", name, colors.Success("no problem pods"))
		default:
			fmt.Fprintf(w, "%s: %s\n", name, colors.Warning("%d problem pod(s)", len(entry.Pods)))
			f.renderPods(w, entry.Pods, colors)
		}
	}

	return nil
}

// renderPods writes the pod table of one cluster
func (f *TableFormatter) renderPods(w io.Writer, pods []fleet.ProblemPod, colors *ColorScheme) {
	table := f.createTable(w)

	headers := []string{"NAMESPACE", "NAME", "STATUS", "CREATED"}
	if f.options.Wide {
		headers = append(headers, "AGE")
	}
	f.setHeaders(table, headers, colors)

	for _, p := range pods {
		row := []string{
			p.Namespace,
			p.Name,
			colors.PodStatusColor(p.Status),
			p.CreationTimestamp.Format(timeLayout),
		}
		if f.options.Wide {
			row = append(row, duration.HumanDuration(f.now().Sub(p.CreationTimestamp)))
		}
		table.Append(row)
	}

	table.Render()
}

// FormatMutation outputs per-cluster deletion stats and a totals panel
func (f *TableFormatter) FormatMutation(w io.Writer, result *fleet.MutationResult) error {
	report := NewMutationReport(result)
	colors := NewColorScheme(w, f.options.NoColor)

	title := "Deletion Summary"
	if report.DryRun {
		title = "Dry Run Summary (no pods deleted)"
	}

	table := f.createTable(w)
	f.setHeaders(table, []string{"CLUSTER", "TOTAL", "SUCCESS", "FAILED", "STATUS"}, colors)

	for _, entry := range report.Clusters {
		table.Append([]string{
			colors.ClusterName("%s", entry.Cluster),
			strconv.Itoa(entry.Total),
			strconv.Itoa(entry.Success),
			strconv.Itoa(entry.Failed),
			f.mutationState(entry, colors),
		})
	}
	table.Render()

	fmt.Fprintln(w)
	rows := []PanelRow{
		{Label: "Problem pods", Value: strconv.Itoa(report.Totals.Total)},
	}
	if !report.DryRun {
		rows = append(rows,
			PanelRow{Label: "Deleted", Value: strconv.Itoa(report.Totals.Success)},
			PanelRow{Label: "Failed", Value: strconv.Itoa(report.Totals.Failed), Alert: report.Totals.Failed > 0},
		)
	}
	Panel{Title: title, Rows: rows}.Render(w, f.noColor(colors))

	return nil
}

func (f *TableFormatter) mutationState(entry ClusterStats, colors *ColorScheme) string {
	switch entry.State {
	case StateFailed:
		return colors.Error("query failed: %s", entry.Error)
	case StatePartial:
		return colors.Warning("partial failure")
	case StateDryRun:
		return colors.Warning("would delete")
	case StateSuccess:
		return colors.Success("success")
	default:
		return colors.Success("no problem pods")
	}
}

// FormatClusterInfo outputs one row per loaded cluster
func (f *TableFormatter) FormatClusterInfo(w io.Writer, infos []cluster.Info) error {
	if len(infos) == 0 {
		fmt.Fprintln(w, "No clusters loaded")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)
	f.setHeaders(table, []string{"NAME", "VERSION", "API SERVER", "BUILD DATE", "PLATFORM"}, colors)

	for _, info := range infos {
		table.Append([]string{
			colors.ClusterName("%s", info.Name),
			info.Version,
			info.APIServer,
			info.BuildDate,
			info.Platform,
		})
	}

	table.Render()
	return nil
}

// formatMap formats a map as a two-column table (key-value pairs) sorted by key
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		table.Append([]string{k, fmt.Sprintf("%v", data[k])})
	}

	table.Render()
	return nil
}

func (f *TableFormatter) setHeaders(table *tablewriter.Table, headers []string, colors *ColorScheme) {
	if f.options.NoHeaders {
		return
	}
	if colors.Disabled {
		table.SetHeader(headers)
		return
	}
	colored := make([]string, len(headers))
	for i, h := range headers {
		colored[i] = colors.Header("%s", h)
	}
	table.SetHeader(colored)
}

// noColor reports whether panels should be rendered without color
func (f *TableFormatter) noColor(colors *ColorScheme) bool {
	return f.options.NoColor || colors.Disabled
}

// createTable creates a new table with kubectl-style configuration
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t") // Tab-separated like kubectl
	table.SetNoWhiteSpace(true)

	return table
}
