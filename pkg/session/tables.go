package session

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/goliatone/go-wand/pkg/project"
)

var headingStyle = lipgloss.NewStyle().Bold(true)

// PrintProjects writes the "Configured Projects" table.
func (c *Controller) PrintProjects() error {
	rows := make([][]string, 0, len(c.projects))
	for _, p := range c.Projects() {
		rows = append(rows, []string{p.Name, p.TemplateID, p.OutputDir(), formatContext(p.Context)})
	}
	return c.printTable("Configured Projects", []string{"Name", "Template", "Output", "Context"}, rows)
}

// PrintTemplates writes the "Loaded templates" table in catalog order. The
// exit entry is not listed.
func (c *Controller) PrintTemplates() error {
	templates := c.registry.Templates()
	rows := make([][]string, 0, len(templates))
	for _, tmpl := range templates {
		rows = append(rows, []string{tmpl.ID, tmpl.Name, tmpl.RootPath})
	}
	return c.printTable("Loaded templates", []string{"id", "Name", "Path"}, rows)
}

func (c *Controller) printTable(title string, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)

	if _, err := fmt.Fprintln(c.out, headingStyle.Render(title)); err != nil {
		return fmt.Errorf("session: print %s: %w", strings.ToLower(title), err)
	}
	if _, err := fmt.Fprintln(c.out, t.Render()); err != nil {
		return fmt.Errorf("session: print %s: %w", strings.ToLower(title), err)
	}
	return nil
}

func formatContext(ctx *project.Context) string {
	keys := ctx.Keys()
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		value, _ := ctx.Get(key)
		parts = append(parts, key+"="+value)
	}
	return strings.Join(parts, ", ")
}
