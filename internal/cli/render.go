package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/duedate"
	"github.com/Tomlord1122/todo-tracker/internal/filter"
)

// shortIDLen is how many id characters the list shows; any unique prefix works
// as an argument.
const shortIDLen = 8

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorOrange = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
)

// theme holds the styles bound to one output. Styles built from a renderer for
// a non-terminal writer emit plain text.
type theme struct {
	header    lipgloss.Style
	id        lipgloss.Style
	text      lipgloss.Style
	completed lipgloss.Style
	category  lipgloss.Style
	overdue   lipgloss.Style
	dueSoon   lipgloss.Style
	dueNormal lipgloss.Style
	dimmed    lipgloss.Style
	renderer  *lipgloss.Renderer
}

func newTheme(w io.Writer) *theme {
	r := lipgloss.NewRenderer(w)
	return &theme{
		header:    r.NewStyle().Bold(true).Foreground(colorWhite).Background(colorBlue).Padding(0, 1),
		id:        r.NewStyle().Foreground(colorGray),
		text:      r.NewStyle().Foreground(colorWhite),
		completed: r.NewStyle().Strikethrough(true).Foreground(colorGray),
		category:  r.NewStyle().Foreground(colorBlue),
		overdue:   r.NewStyle().Bold(true).Foreground(colorRed),
		dueSoon:   r.NewStyle().Foreground(colorOrange),
		dueNormal: r.NewStyle().Foreground(colorGray),
		dimmed:    r.NewStyle().Foreground(colorGray).Italic(true),
		renderer:  r,
	}
}

func (t *theme) priority(p domain.Priority) lipgloss.Style {
	base := t.renderer.NewStyle().Bold(true)
	switch p {
	case domain.PriorityHigh:
		return base.Foreground(colorRed)
	case domain.PriorityMedium:
		return base.Foreground(colorYellow)
	default:
		return base.Foreground(colorGreen)
	}
}

func (t *theme) due(b duedate.Bucket) lipgloss.Style {
	switch b {
	case duedate.Overdue:
		return t.overdue
	case duedate.DueToday, duedate.DueSoon:
		return t.dueSoon
	default:
		return t.dueNormal
	}
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

// renderTodo formats one list row.
func (t *theme) renderTodo(todo domain.Todo, now time.Time, loc *time.Location) string {
	check := "[ ]"
	text := t.text.Render(todo.Text)
	if todo.Completed {
		check = "[x]"
		text = t.completed.Render(todo.Text)
	}

	parts := []string{
		check,
		t.id.Render(shortID(todo.ID)),
		text,
		t.category.Render(string(todo.Category)),
		t.priority(todo.Priority).Render(string(todo.Priority)),
	}

	if c, ok := duedate.ForTodo(todo, now, loc); ok {
		label := fmt.Sprintf("%s (%s)", duedate.Describe(c), todo.DueDate)
		style := t.due(c.Bucket)
		// Finished work is never urgent.
		if todo.Completed {
			style = t.dueNormal
		}
		parts = append(parts, style.Render(label))
	}

	return strings.Join(parts, "  ")
}

func (t *theme) renderList(todos []domain.Todo, total int, now time.Time, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(t.header.Render(fmt.Sprintf("Todos (%d of %d)", len(todos), total)))
	b.WriteString("\n")

	if len(todos) == 0 {
		b.WriteString(t.dimmed.Render("Nothing to show."))
		b.WriteString("\n")
		return b.String()
	}

	for _, todo := range todos {
		b.WriteString(t.renderTodo(todo, now, loc))
		b.WriteString("\n")
	}
	return b.String()
}

func (t *theme) renderStats(stats filter.Stats) string {
	return fmt.Sprintf("%d of %d completed (%.0f%%)", stats.Completed, stats.Total, stats.Percent())
}

func describeFilter(spec filter.Spec) string {
	var parts []string
	if spec.SearchText != "" {
		parts = append(parts, fmt.Sprintf("search=%q", spec.SearchText))
	}
	if spec.Category != "" && spec.Category != filter.All {
		parts = append(parts, "category="+spec.Category)
	}
	if spec.Priority != "" && spec.Priority != filter.All {
		parts = append(parts, "priority="+spec.Priority)
	}
	if !spec.ShowCompleted {
		parts = append(parts, "hiding completed")
	}
	if len(parts) == 0 {
		return "showing everything"
	}
	return strings.Join(parts, ", ")
}
