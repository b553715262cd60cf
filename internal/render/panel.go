// Hirstart Recosys - Click Statistics and Article Recommendation
// Copyright 2026 The Hirstart Recosys Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sanchomuzax/hirstart-recosys

package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/sanchomuzax/hirstart-recosys/internal/models"
	"github.com/sanchomuzax/hirstart-recosys/internal/stats"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var panelTemplate = template.Must(
	template.New("panel.html.tmpl").
		Funcs(template.FuncMap{
			"clickTime": func(ev models.ClickEvent) string {
				return ev.Time().UTC().Format(time.DateTime)
			},
			"orNA": func(s string) string {
				if s == "" {
					return "N/A"
				}
				return s
			},
		}).
		ParseFS(templateFS, "templates/panel.html.tmpl"),
)

// Panel renders the info panel for summary.
func Panel(summary stats.Summary) (string, error) {
	var buf bytes.Buffer
	if err := panelTemplate.Execute(&buf, summary); err != nil {
		return "", fmt.Errorf("render panel: %w", err)
	}
	return buf.String(), nil
}
