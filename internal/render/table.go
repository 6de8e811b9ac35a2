// Package render formats analysis batches for terminal display. The layout
// is presentational only, not a stability contract.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"urlguard/internal/domain/models"
)

// AnalysisTable writes a tabular rendering of a result batch: URL, the four
// scores to two decimal places, and a notes column combining list flags and
// issue tags.
func AnalysisTable(w io.Writer, results []models.URLAnalysisResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"URL", "Spam", "Phishing", "Malicious", "Authenticity", "Notes"})
	table.SetAutoWrapText(false)

	for _, r := range results {
		var notes []string
		if r.IsBlacklisted {
			notes = append(notes, "BLACKLISTED")
		}
		if r.IsWhitelisted {
			notes = append(notes, "WHITELISTED")
		}
		notes = append(notes, r.Issues...)

		joined := strings.Join(notes, ", ")
		if joined == "" {
			joined = "-"
		}

		table.Append([]string{
			r.URL,
			fmt.Sprintf("%.2f", r.SpamScore),
			fmt.Sprintf("%.2f", r.PhishingScore),
			fmt.Sprintf("%.2f", r.MaliciousScore),
			fmt.Sprintf("%.2f", r.AuthenticityScore),
			joined,
		})
	}

	table.Render()
}
