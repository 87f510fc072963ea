package report

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"datacatalog/domain/catalog"
	"datacatalog/domain/datareadiness/profiling"
)

// Markdown renders a file analysis and its suggested catalog entry as a Markdown document
func Markdown(analysis *profiling.FileAnalysis, suggested catalog.SuggestedAssetMetadata) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Analysis report: %s\n\n", filepath.Base(analysis.FilePath))
	fmt.Fprintf(&b, "- **File:** `%s`\n", analysis.FilePath)
	fmt.Fprintf(&b, "- **Size:** %s\n", formatBytes(analysis.FileSizeBytes))
	fmt.Fprintf(&b, "- **Analyzed:** %s\n", analysis.AnalysisTimestamp.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- **Sheets:** %d (%d parsed)\n", len(analysis.Sheets), len(analysis.ParsedSheets()))
	fmt.Fprintf(&b, "- **Total rows:** %d\n", analysis.TotalRows)
	fmt.Fprintf(&b, "- **Total columns:** %d\n\n", analysis.TotalColumns)

	b.WriteString("## Suggested catalog entry\n\n")
	fmt.Fprintf(&b, "- **Asset name:** %s\n", suggested.AssetName)
	fmt.Fprintf(&b, "- **Quality score:** %s\n", strconv.FormatFloat(suggested.DataQualityScore, 'f', 3, 64))
	fmt.Fprintf(&b, "- **Access level:** %s\n", suggested.AccessLevel)
	fmt.Fprintf(&b, "- **Sensitive:** %s\n", yesNo(suggested.IsSensitive))
	tags := "none"
	if len(suggested.Tags) > 0 {
		tags = strings.Join(suggested.Tags, ", ")
	}
	fmt.Fprintf(&b, "- **Tags:** %s\n", tags)

	for _, sheet := range analysis.Sheets {
		fmt.Fprintf(&b, "\n## Sheet: %s\n\n", sheet.Name)
		if sheet.Failed() {
			fmt.Fprintf(&b, "> %s\n", sheet.Error)
			continue
		}
		fmt.Fprintf(&b, "Rows: %d, columns: %d, completeness: %.2f%%, duplicate rows: %d\n\n",
			sheet.RowCount, sheet.ColumnCount, sheet.Completeness, sheet.DuplicateRowCount)
		if len(sheet.Columns) == 0 {
			b.WriteString("No columns.\n")
			continue
		}

		b.WriteString("| Column | Type | Nulls | Null % | Unique | Sensitive | Summary |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, col := range sheet.Columns {
			fmt.Fprintf(&b, "| %s | %s | %d | %.2f | %s | %s | %s |\n",
				escapeCell(col.Name), col.InferredType, col.NullCount, col.NullPercentage,
				yesNo(col.IsUnique), sensitivityLabel(col.Sensitivity), escapeCell(summarize(col.Stats)))
		}
	}

	return b.String()
}

// HTML renders a Markdown report as an HTML fragment
func HTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.ToHTML([]byte(md), p, renderer)
}

func summarize(stats profiling.TypeSpecificStats) string {
	switch {
	case stats.Numeric != nil:
		s := stats.Numeric
		out := fmt.Sprintf("min %s, max %s, mean %s, median %s",
			formatFloat(s.Min), formatFloat(s.Max), formatFloat(s.Mean), formatFloat(s.Median))
		if s.StdDev != nil {
			out += ", std " + formatFloat(*s.StdDev)
		}
		return out
	case stats.Text != nil:
		s := stats.Text
		top := make([]string, 0, len(s.MostCommon))
		for _, vc := range s.MostCommon {
			top = append(top, fmt.Sprintf("%s (%d)", vc.Value, vc.Count))
		}
		return fmt.Sprintf("length %d-%d, avg %s, top: %s", s.MinLength, s.MaxLength, formatFloat(s.AvgLength), strings.Join(top, ", "))
	case stats.Datetime != nil:
		s := stats.Datetime
		return fmt.Sprintf("%s to %s (%d days)", s.Min, s.Max, s.SpanDays)
	case stats.Boolean != nil:
		return fmt.Sprintf("true %d, false %d", stats.Boolean.TrueCount, stats.Boolean.FalseCount)
	}
	return ""
}

func sensitivityLabel(flags profiling.SensitivityFlags) string {
	var labels []string
	if flags.PII {
		labels = append(labels, "PII")
	}
	if flags.PHI {
		labels = append(labels, "PHI")
	}
	if flags.PCI {
		labels = append(labels, "PCI")
	}
	if len(labels) == 0 {
		return "-"
	}
	return strings.Join(labels, ", ")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBytes(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	}
	return fmt.Sprintf("%d bytes", n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
