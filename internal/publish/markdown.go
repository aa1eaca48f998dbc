package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"skillboard/internal/model"
	"skillboard/internal/view"
)

type RenderOptions struct {
	Title string
	// GeneratedAt is stamped into the report; zero omits the line.
	GeneratedAt time.Time
	// SkipTasks leaves out the per-skill task sections.
	SkipTasks bool
}

// RenderReportMarkdown renders the skills visible under the source's category
// filter, each with its tasks under the status filter. The statistics block
// always covers the whole dataset.
func RenderReportMarkdown(src view.Source, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = "Skills report"
	}
	writeLn("# " + title)
	writeLn("")

	f := src.Filters()
	if !opt.GeneratedAt.IsZero() {
		writeLn("- Generated: " + opt.GeneratedAt.UTC().Format(time.RFC3339))
	}
	writeLn("- Category: " + string(f.Category))
	writeLn("- Status: " + string(f.Status))
	writeLn("")

	st := view.ComputeStats(src)
	writeLn("## Statistics")
	writeLn("")
	writeLn("| Metric | Value |")
	writeLn("| --- | --- |")
	writeLn(fmt.Sprintf("| Skills | %d |", st.TotalSkills))
	writeLn(fmt.Sprintf("| Average level | %s |", view.FormatLevel(st.AverageLevel)))
	writeLn(fmt.Sprintf("| Tasks | %d |", st.TotalTasks))
	writeLn(fmt.Sprintf("| Completed | %d |", st.CompletedTasks))
	writeLn(fmt.Sprintf("| Completion rate | %s%% |", view.FormatPercent(st.CompletionRatePercent)))
	writeLn("")

	skills := view.FilteredSkills(src)
	writeLn("## Skills")
	writeLn("")
	if len(skills) == 0 {
		writeLn("_No skills match this category._")
		return buf.String()
	}
	writeLn("| Skill | Category | Level |")
	writeLn("| --- | --- | --- |")
	for _, sk := range skills {
		writeLn(fmt.Sprintf("| %s | %s | %s |", escapeCell(sk.Name), escapeCell(string(sk.Category)), levelBar(sk.Level)))
	}

	if opt.SkipTasks {
		return buf.String()
	}
	for _, sk := range skills {
		tasks := view.FilterTasks(src.Tasks(), sk.ID, f.Status)
		view.SortTasks(tasks)
		writeLn("")
		writeLn("### " + strings.TrimSpace(sk.Name))
		writeLn("")
		if len(tasks) == 0 {
			writeLn("_No tasks._")
			continue
		}
		for _, t := range tasks {
			writeLn(taskLine(t))
		}
	}
	return buf.String()
}

func taskLine(t model.Task) string {
	box := "[ ]"
	if t.Done {
		box = "[x]"
	}
	text := strings.TrimSpace(t.Text)
	if text == "" {
		text = "(untitled)"
	}
	p := strings.TrimSpace(string(t.Priority))
	if p == "" {
		return "- " + box + " " + text
	}
	return "- " + box + " " + text + " _(" + p + ")_"
}

func levelBar(level int) string {
	lv := view.ClampLevel(level)
	filled := lv / 10
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled) + fmt.Sprintf(" %d%%", lv)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "|", "\\|")
}
