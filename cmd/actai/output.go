package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"actai-dashboard/internal/domain"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// statusMark renders a task status as a checkbox.
func statusMark(s domain.TaskStatus) string {
	switch s {
	case domain.StatusCompleted:
		return "[x]"
	case domain.StatusInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}

func writeTasks(w io.Writer, tasks []domain.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "no tasks")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%s %s\t%s\t%s\t%s\n", t.ID, statusMark(t.Status), t.Status, t.Priority, t.DueDate, t.Title)
	}
	return tw.Flush()
}

func writePlans(w io.Writer, projects []domain.Project) error {
	if len(projects) == 0 {
		_, err := fmt.Fprintln(w, "no plans yet, create one with: actai create-plan <objective>")
		return err
	}
	var b strings.Builder
	for _, p := range projects {
		fmt.Fprintf(&b, "#%d %s  %.1f%%", p.ID, p.Title, p.ProgressPercentage)
		if !p.EndDate.IsZero() {
			fmt.Fprintf(&b, "  (until %s)", p.EndDate)
		}
		b.WriteString("\n")
		for _, m := range p.Milestones {
			mark := "[ ]"
			if m.Completed {
				mark = "[x]"
			}
			fmt.Fprintf(&b, "  %s #%d %s\n", mark, m.ID, m.Title)
			for _, t := range m.Tasks {
				fmt.Fprintf(&b, "      %s #%d %s\n", statusMark(t.Status), t.ID, t.Title)
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeCheckin(w io.Writer, c domain.Checkin) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "date\t%s\n", c.Date)
	fmt.Fprintf(tw, "mood\t%s\n", c.Mood)
	if c.ProductivityScore != nil {
		fmt.Fprintf(tw, "productivity\t%g/10\n", *c.ProductivityScore)
	}
	fmt.Fprintf(tw, "achievements\t%s\n", c.AchievementsToday)
	fmt.Fprintf(tw, "reflection\t%s\n", c.ReflectionNotes)
	if c.AIMotivationalQuote != "" {
		fmt.Fprintf(tw, "quote\t%s\n", c.AIMotivationalQuote)
	}
	return tw.Flush()
}

// emit prints v as JSON when --json is set, otherwise through text.
func (c *cli) emit(w io.Writer, v any, text func(io.Writer) error) error {
	if c.jsonOut {
		return writeJSON(w, v)
	}
	return text(w)
}
