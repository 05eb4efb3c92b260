package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"StockSentinel/internal/designation"
	"StockSentinel/internal/model"
	"StockSentinel/internal/report"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	sectionStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	triggeredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	clearStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

func heading(code string, name *string) string {
	if name != nil {
		return fmt.Sprintf("%s (%s)", *name, code)
	}
	return code
}

func yesNo(triggered bool) string {
	if triggered {
		return triggeredStyle.Render("TRIGGERED")
	}
	return clearStyle.Render("not triggered")
}

// RenderReport writes a designation report to w.
func RenderReport(w io.Writer, resp *report.Response) {
	if !resp.OK {
		fmt.Fprintln(w, errorStyle.Render("error: "+resp.Error.Message))
		return
	}
	fmt.Fprintln(w, titleStyle.Render(heading(resp.Input.Code, resp.Meta.StockName)))
	fmt.Fprintf(w, "as of %s (%s)   close %s\n\n",
		resp.Meta.AsOf.Format(model.DateLayout), humanize.Time(resp.Meta.AsOf), Won(resp.Meta.LatestClose))

	eval := resp.Evaluation
	for _, c := range []struct {
		label string
		res   model.CategoryResult
	}{
		{"Overheating", eval.Overheating},
		{"Investment caution", eval.Caution},
		{"Investment warning", eval.Warning},
	} {
		fmt.Fprintln(w, sectionStyle.Render(categoryBlock(c.label, c.res)))
	}

	fmt.Fprintf(w, "margin: %s   credit: %s\n", mutedStyle.Render("unknown"), mutedStyle.Render("unknown"))
}

func categoryBlock(label string, r model.CategoryResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s: %s", label, yesNo(r.Triggered)))
	if r.Reason != "" {
		b.WriteString("\n" + mutedStyle.Render(r.Reason))
		return b.String()
	}
	for _, name := range r.Rules {
		o := r.Details[name]
		mark := mutedStyle.Render("-")
		if o.Triggered {
			mark = triggeredStyle.Render("*")
		}
		b.WriteString(fmt.Sprintf("\n%s %-32s %10s  (threshold %s)", mark, designation.RuleLabel(name),
			RuleValue(name, o.Value), RuleValue(name, o.Threshold)))
		if o.TargetPrice != nil {
			b.WriteString(fmt.Sprintf("  fires at %s", Won(*o.TargetPrice)))
		}
		if days, ok := o.Counters["caution_days"]; ok {
			b.WriteString(fmt.Sprintf("  caution days %.0f/%.0f", days, o.Counters["required_days"]))
		}
	}
	if tp, ok := r.NearestTargetPrice(); ok {
		b.WriteString("\nnearest trigger price " + Won(tp))
	}
	return b.String()
}

// RenderRelease writes a warning release schedule to w: the last three
// determinations, their violated conditions and, while pending, the price
// the next close must stay under.
func RenderRelease(w io.Writer, resp *report.ReleaseResponse) {
	if !resp.OK {
		fmt.Fprintln(w, errorStyle.Render("error: "+resp.Error.Message))
		return
	}
	var name *string
	if resp.Meta != nil {
		name = resp.Meta.StockName
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("--- [%s] warning release ---", heading(resp.Input.Code, name))))
	fmt.Fprintf(w, "designation date: %s", resp.Input.DesignationDate)
	if resp.DesignationDate != nil && resp.DesignationDate.Format(model.DateLayout) != resp.Input.DesignationDate {
		fmt.Fprintf(w, " (nearest trading day %s)", resp.DesignationDate.Format(model.DateLayout))
	}
	fmt.Fprintln(w)

	switch resp.Status {
	case model.ReleaseReleased:
		fmt.Fprintln(w, clearStyle.Render("released on "+resp.ReleasedDate.Format(model.DateLayout)))
	case model.ReleaseAwaiting:
		fmt.Fprintln(w, mutedStyle.Render("awaiting first determination: "+resp.Message))
		return
	default:
		fmt.Fprintln(w, triggeredStyle.Render(fmt.Sprintf("release pending (%d days judged)", len(resp.History))))
	}
	if resp.Message != "" {
		fmt.Fprintln(w, mutedStyle.Render("note: "+resp.Message))
	}

	if len(resp.History) > 0 {
		fmt.Fprintln(w, "\nrecent determinations:")
	}
	for _, det := range LastDeterminations(resp.History, 3) {
		fmt.Fprintf(w, "- %s: %s (must be under %s) -> %s\n",
			det.Date.Format(model.DateLayout), Won(det.Close), Won(det.ReleaseCeiling), Verdict(det))
	}

	if resp.Status == model.ReleasePending && resp.NextThresholds != nil {
		n := resp.NextThresholds
		fmt.Fprintln(w, "\nnext determination:")
		fmt.Fprintf(w, "  close must stay under %s\n", Won(n.ReleaseCeiling))
		fmt.Fprintf(w, "  (5 days ago x1.6 = %s, 15 days ago x2.0 = %s, prior 14-day high = %s)\n",
			Won(n.Thresh5d), Won(n.Thresh15d), Won(n.Prev14Max))
	}
}
