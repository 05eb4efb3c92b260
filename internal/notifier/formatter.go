package notifier

import (
	"fmt"
	"html"
	"strings"

	"StockSentinel/internal/designation"
	"StockSentinel/internal/display"
	"StockSentinel/internal/model"
	"StockSentinel/internal/report"
)

func title(resp *report.Response) string {
	name := resp.Input.Code
	if resp.Meta.StockName != nil {
		name = fmt.Sprintf("%s (%s)", html.EscapeString(*resp.Meta.StockName), resp.Input.Code)
	}
	return name
}

// FormatReport formats a designation report into a Telegram HTML message.
func FormatReport(resp *report.Response) string {
	if !resp.OK {
		return FormatError(resp.Error.Message)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s\n", title(resp), resp.Meta.AsOf.Format(model.DateLayout)))
	b.WriteString(fmt.Sprintf("Close: %s\n\n", display.Won(resp.Meta.LatestClose)))

	eval := resp.Evaluation
	writeCategory(&b, "🔥", "Overheating", eval.Overheating)
	writeCategory(&b, "⚠️", "Caution", eval.Caution)
	writeCategory(&b, "🚨", "Warning", eval.Warning)

	switch {
	case eval.Warning.Triggered:
		b.WriteString("\n<b>Warning designation conditions are met.</b>")
	case eval.Caution.Triggered:
		b.WriteString("\n<b>Caution designation conditions are met.</b>")
	default:
		b.WriteString("\nNo designation conditions met ✅")
	}
	return b.String()
}

func writeCategory(b *strings.Builder, icon, label string, r model.CategoryResult) {
	mark := "no"
	if r.Triggered {
		mark = "<b>YES</b>"
	}
	b.WriteString(fmt.Sprintf("%s <b>%s</b>: %s\n", icon, label, mark))
	if r.Reason != "" {
		b.WriteString(fmt.Sprintf("  (%s)\n\n", r.Reason))
		return
	}
	for _, name := range r.Rules {
		o := r.Details[name]
		check := "·"
		if o.Triggered {
			check = "✔"
		}
		line := fmt.Sprintf("  %s %s: %s / %s", check, designation.RuleLabel(name),
			display.RuleValue(name, o.Value), display.RuleValue(name, o.Threshold))
		if n, ok := o.Counters["caution_days"]; ok {
			line += fmt.Sprintf(" [caution days %.0f/%.0f]", n, o.Counters["required_days"])
		}
		b.WriteString(line + "\n")
	}
	if tp, ok := r.NearestTargetPrice(); ok {
		b.WriteString(fmt.Sprintf("  Nearest trigger price: %s\n", display.Won(tp)))
	}
	b.WriteString("\n")
}

// FormatRelease formats a warning release schedule with the last three
// determinations and, while pending, the forward guidance.
func FormatRelease(resp *report.ReleaseResponse) string {
	if !resp.OK {
		return FormatError(resp.Error.Message)
	}
	var b strings.Builder
	name := resp.Input.Code
	if resp.Meta != nil && resp.Meta.StockName != nil {
		name = fmt.Sprintf("%s (%s)", html.EscapeString(*resp.Meta.StockName), resp.Input.Code)
	}
	b.WriteString(fmt.Sprintf("🔓 <b>Warning release</b> | %s\n", name))
	if resp.DesignationDate != nil {
		b.WriteString(fmt.Sprintf("Designated: %s\n", resp.DesignationDate.Format(model.DateLayout)))
	}

	switch resp.Status {
	case model.ReleaseAwaiting:
		b.WriteString("Status: awaiting first determination (T+10)\n")
		return b.String()
	case model.ReleaseReleased:
		b.WriteString(fmt.Sprintf("Status: <b>released</b> on %s\n", resp.ReleasedDate.Format(model.DateLayout)))
	default:
		b.WriteString("Status: <b>pending</b>\n")
	}
	if resp.Message != "" {
		b.WriteString("⚠️ " + html.EscapeString(resp.Message) + "\n")
	}

	b.WriteString("\nRecent determinations:\n")
	for _, det := range display.LastDeterminations(resp.History, 3) {
		b.WriteString(fmt.Sprintf("  %s close %s, ceiling %s: %s\n",
			det.Date.Format(model.DateLayout), display.Won(det.Close), display.Won(det.ReleaseCeiling), display.Verdict(det)))
	}

	if resp.Status == model.ReleasePending && resp.NextThresholds != nil {
		n := resp.NextThresholds
		b.WriteString(fmt.Sprintf("\n📌 Close must stay under %s\n", display.Won(n.ReleaseCeiling)))
		b.WriteString(fmt.Sprintf("  5d ×1.6: %s | 15d ×2.0: %s | prior 14d high: %s\n",
			display.Won(n.Thresh5d), display.Won(n.Thresh15d), display.Won(n.Prev14Max)))
	}
	return b.String()
}

// FormatError formats a failure message.
func FormatError(msg string) string {
	return "❌ " + html.EscapeString(msg)
}
