// Package style holds the shared colors and icons of the command line output.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Accent = lipgloss.Color("#0EA5E9")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Info    = "ℹ"
	Arrow   = "→"
)

// Banner renders the preview address line printed when the dev server is up.
func Banner(url string) string {
	label := lipgloss.NewStyle().Foreground(Accent).Bold(true).Render("sitepipe")
	return label + " " + Arrow + " " + lipgloss.NewStyle().Underline(true).Render(url)
}
