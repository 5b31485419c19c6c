package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/usage-report/pkg/models/domain"
)

type TableConfig struct {
	SheetWidth  int
	PanelWidth  int
	WindowWidth int
	RowsWidth   int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		SheetWidth:  24,
		PanelWidth:  5,
		WindowWidth: 10,
		RowsWidth:   6,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const summaryTemplate = `
Weekly Usage Report{{if .RunID}} ({{.RunID}}){{end}}

Saved: {{.Path}}
{{- if .Published}}
Published: {{.Published}}
{{- end}}
Duration: {{.Duration}}
{{range .Windows}}
{{.}}
{{- end}}
{{- if .Stats}}

Daily results:
{{- range .Stats}}
{{printf "%-10s" .Window}} total {{.Total}}, mean {{printf "%.1f" .Mean}}, median {{printf "%.1f" .Median}}, peak {{.Peak}} on {{.PeakDay.Format "2006-01-02"}}
{{- end}}
{{- end}}

{{separator}}
{{formatRow "Sheet" "Panel" "Window" "Rows"}}
{{separator}}
{{range .Panels}}{{formatRow .Sheet .Panel .Window .Rows}}
{{end}}{{separator}}
{{range .Warnings}}
warning: {{.}}
{{- end}}
`

const windowsTemplate = `{{range .}}{{.Label | printf "%-10s"}} {{.Start.Format "2006-01-02"}} to {{.End.Format "2006-01-02"}}
{{end}}`

func (c *Reporter) funcs() template.FuncMap {
	return template.FuncMap{
		"formatRow": func(sheet, panel string, window, rows interface{}) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*v | %*v |",
				c.config.SheetWidth, sheet,
				c.config.PanelWidth, panel,
				c.config.WindowWidth, window,
				c.config.RowsWidth, rows)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.SheetWidth+2),
				strings.Repeat("-", c.config.PanelWidth+2),
				strings.Repeat("-", c.config.WindowWidth+2),
				strings.Repeat("-", c.config.RowsWidth+2))
		},
	}
}

// Handle prints the summary of a finished run.
func (c *Reporter) Handle(summary *domain.RunSummary) error {
	t, err := template.New("summary").Funcs(c.funcs()).Parse(summaryTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, summary)
}

// HandleWindows prints the reporting windows one per line.
func (c *Reporter) HandleWindows(windows []domain.TimeWindow) error {
	t, err := template.New("windows").Parse(windowsTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, windows)
}
