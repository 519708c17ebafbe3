package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/dagview/pkg/domain"
)

// StepResult is the outcome of one replayed step.
type StepResult struct {
	Index     int                 `json:"index"`
	Step      string              `json:"step"`
	Decisions []domain.Decision   `json:"decisions,omitempty"`
	Renders   int                 `json:"renders"`
	Reports   []domain.Report     `json:"reports,omitempty"`
	Rendered  []string            `json:"rendered"`
	State     domain.DiagramState `json:"state"`
	Calls     int                 `json:"calls"`
	Err       string              `json:"error,omitempty"`
}

// Report is the outcome of a replay.
type Report struct {
	Name  string        `json:"name,omitempty"`
	Steps []*StepResult `json:"steps"`
}

// Decisions returns every decision taken, in order.
func (r *Report) Decisions() []domain.Decision {
	var all []domain.Decision
	for _, s := range r.Steps {
		all = append(all, s.Decisions...)
	}
	return all
}

// Markdown renders the report as a markdown table.
func (r *Report) Markdown() string {
	var sb strings.Builder
	title := r.Name
	if title == "" {
		title = "Replay"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	sb.WriteString("| # | step | decision | renders | rendered nodes | mode | pending render | reports |\n")
	sb.WriteString("|---|---|---|---|---|---|---|---|\n")

	for _, s := range r.Steps {
		decisions := make([]string, len(s.Decisions))
		for i, d := range s.Decisions {
			decisions[i] = string(d)
		}
		decision := strings.Join(decisions, ", ")
		if s.Err != "" {
			decision = "error: " + s.Err
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %d | %s | %s | %s | %s |\n",
			s.Index,
			s.Step,
			cell(decision),
			s.Renders,
			cell(strings.Join(s.Rendered, " ")),
			s.State.Mode,
			yesNo(s.State.PendingRenderVisible),
			cell(describeReports(s.Reports)),
		)
	}
	return sb.String()
}

func describeReports(reports []domain.Report) string {
	parts := make([]string, 0, len(reports))
	for _, rep := range reports {
		switch rep.Name {
		case domain.ReportTopLevelCombos:
			ids := make([]string, len(rep.Combos))
			for i, c := range rep.Combos {
				ids[i] = c.ID
			}
			parts = append(parts, "combos ["+strings.Join(ids, " ")+"]")
		case domain.ReportFocusPath:
			parts = append(parts, "focus "+strings.Join(rep.Path, "/"))
		}
	}
	return strings.Join(parts, "; ")
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", "\\|")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
