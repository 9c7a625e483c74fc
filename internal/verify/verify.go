// Package verify renders verification results returned by the backend.
package verify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatusError is the status value the backend uses for failed verifications.
const StatusError = "error"

// Result represents a verification outcome as delivered by the backend.
type Result struct {
	Status     string         `json:"status"`
	ErrorCode  string         `json:"errorCode,omitempty"`
	Message    string         `json:"message,omitempty"`
	AccessList map[string]any `json:"accessList,omitempty"`
}

// IsError reports whether the result describes a failed verification.
func (r Result) IsError() bool {
	return r.Status == StatusError
}

var (
	errorPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(0, 1)

	successPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("10")).
				Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().Bold(true)
)

// Render formats a verification result for display. It is a pure function of
// its input: an error panel for failed verifications, otherwise a success
// panel with a pretty-printed dump of the access list when one is present.
func Render(r Result) string {
	if r.IsError() {
		return renderError(r)
	}
	return renderSuccess(r)
}

func renderError(r Result) string {
	var body strings.Builder
	body.WriteString(panelTitleStyle.Render("Verification failed"))
	body.WriteString("\n")
	body.WriteString(fmt.Sprintf("Status:  %s", r.Status))
	if r.ErrorCode != "" {
		body.WriteString(fmt.Sprintf("\nCode:    %s", r.ErrorCode))
	}
	if r.Message != "" {
		body.WriteString(fmt.Sprintf("\nMessage: %s", r.Message))
	}
	return errorPanelStyle.Render(body.String())
}

func renderSuccess(r Result) string {
	var body strings.Builder
	body.WriteString(panelTitleStyle.Render("Verification succeeded"))
	if r.Message != "" {
		body.WriteString(fmt.Sprintf("\n%s", r.Message))
	}
	if len(r.AccessList) > 0 {
		body.WriteString("\nAccess list:\n")
		body.WriteString(formatAccessList(r.AccessList))
	}
	return successPanelStyle.Render(body.String())
}

// formatAccessList pretty-prints the access list as indented JSON. Map keys
// marshal in sorted order, so the output is deterministic.
func formatAccessList(accessList map[string]any) string {
	data, err := json.MarshalIndent(accessList, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", accessList)
	}
	return string(data)
}
