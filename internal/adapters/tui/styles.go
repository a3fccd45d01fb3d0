package tui

import "github.com/charmbracelet/lipgloss"

var (
	brandBlue   = lipgloss.Color("#2980B9")
	brandLight  = lipgloss.Color("#3498DB")
	background  = lipgloss.Color("#0b0e14")
	panel       = lipgloss.Color("#161b22")
	muted       = lipgloss.Color("#64748b")
	foreground  = lipgloss.Color("#f2f2f2")
	destructive = lipgloss.Color("#e53935")
	pulse       = lipgloss.Color("#06b6d4")
	success     = lipgloss.Color("#22c55e")
)

// Styles holds every lipgloss style the page uses.
type Styles struct {
	Header         lipgloss.Style
	Brand          lipgloss.Style
	Sidebar        lipgloss.Style
	SidebarTitle   lipgloss.Style
	SidebarItem    lipgloss.Style
	UserLabel      lipgloss.Style
	UserText       lipgloss.Style
	AssistantLabel lipgloss.Style
	Muted          lipgloss.Style
	Loading        lipgloss.Style
	Attachment     lipgloss.Style
	Input          lipgloss.Style
	Notice         lipgloss.Style
	Error          lipgloss.Style
	Live           lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(brandBlue).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(panel).
			Padding(0, 1),
		Brand: lipgloss.NewStyle().
			Bold(true).
			Foreground(foreground).
			Background(brandBlue).
			Padding(0, 1),
		Sidebar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(panel).
			Padding(0, 1),
		SidebarTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(muted).
			MarginBottom(1),
		SidebarItem: lipgloss.NewStyle().
			Foreground(muted),
		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(brandLight).
			MarginTop(1),
		UserText: lipgloss.NewStyle().
			Foreground(foreground).
			PaddingLeft(2),
		AssistantLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(brandBlue).
			MarginTop(1),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Loading: lipgloss.NewStyle().
			Foreground(pulse),
		Attachment: lipgloss.NewStyle().
			Foreground(brandLight).
			Padding(0, 1),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brandBlue).
			Padding(0, 1),
		Notice: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(destructive).
			Background(background).
			Padding(1, 2),
		Error: lipgloss.NewStyle().
			Foreground(destructive),
		Live: lipgloss.NewStyle().
			Foreground(success),
	}
}
