package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// now is replaced in tests.
var now = time.Now

// markdownTable renders rows under a "# title:" heading, or "" when there are no rows.
func markdownTable(title string, header []any, rows [][]any) string {
	if len(rows) == 0 {
		return ""
	}
	var buf strings.Builder
	fmt.Fprintf(&buf, "# %s:\n", title)
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header(header...)
	for _, row := range rows {
		_ = table.Append(row...)
	}
	_ = table.Render()
	return strings.TrimRight(buf.String(), "\n")
}

func FormatMissingFields(fields []FieldInfo) string {
	rows := make([][]any, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, []any{f.DisplayName, f.JSONPointer, f.Description})
	}
	return markdownTable("Missing required fields", []any{"Field", "Pointer", "Description"}, rows)
}

// FormatValidationErrors lists each invalid field with its machine code, when it has one.
func FormatValidationErrors(issues []FieldInfo) string {
	rows := make([][]any, 0, len(issues))
	for _, f := range issues {
		code := f.Code
		if code == "" {
			code = "-"
		}
		rows = append(rows, []any{f.JSONPointer, code, f.Description})
	}
	return markdownTable("Validation errors", []any{"Pointer", "Code", "Error"}, rows)
}

// FormatToolRequest renders a turn as the markdown document the LLM components read.
func FormatToolRequest[T any](req *ToolRequest[T]) (string, error) {
	stateJSON, err := json.Marshal(req.State)
	if err != nil {
		return "", fmt.Errorf("marshal form state: %w", err)
	}

	sections := []string{
		"# Current Date:\n" + now().Format(time.RFC3339),
		"# Form state JSON:\n```json\n" + string(stateJSON) + "\n```",
	}
	add := func(s string) {
		if s != "" {
			sections = append(sections, s)
		}
	}
	if req.StateSchema != "" {
		add("# Form state schema JSON:\n```json\n" + req.StateSchema + "\n```")
	}
	if req.Phase != "" {
		add("# Current Phase:\n" + string(req.Phase))
	}
	if pair := req.MessagePair; pair.Question != "" || pair.Answer != "" {
		add("# Latest Dialogue:")
		if pair.Question != "" {
			add("## Assistant Question:\n" + pair.Question)
		}
		if pair.Answer != "" {
			add("## User Answer:\n" + pair.Answer)
		}
	}
	add(FormatMissingFields(req.MissingFields))
	add(FormatValidationErrors(req.ValidationErrors))
	return strings.Join(sections, "\n\n"), nil
}
