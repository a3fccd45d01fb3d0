package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dbu-intelligence/navigator/internal/domain"
)

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.styles.Header.Render(
		m.styles.Brand.Render("D") + " DBU" + m.styles.Muted.Render("AI") + "   " +
			m.styles.Live.Render("●") + " DBU INTELLECT ACTIVE",
	)

	var main string
	if m.mode == pickerView {
		main = lipgloss.JoinVertical(lipgloss.Left,
			m.styles.UserLabel.Render("Select an image"),
			m.picker.View(),
			m.styles.Muted.Render("enter select · esc back"),
		)
	} else {
		main = lipgloss.JoinVertical(lipgloss.Left,
			m.viewport.View(),
			m.renderStatus(),
			m.styles.Input.Width(m.viewport.Width-2).Render(m.input.View()),
		)
	}

	if m.width >= minSidebarWidth {
		main = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
	}

	page := lipgloss.JoinVertical(lipgloss.Left,
		header,
		main,
		m.help.ShortHelpView(m.keys.ShortHelp()),
	)

	if m.notice != nil {
		box := m.styles.Notice.Render(m.notice.Text + "\n\n" + m.styles.Muted.Render("press enter to continue"))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return page
}

func (m Model) renderTranscript() string {
	var sb strings.Builder

	for _, msg := range m.manager.Transcript() {
		switch msg.Role {
		case domain.RoleUser:
			sb.WriteString(m.styles.UserLabel.Render("You") + "\n")
			if msg.HasAttachment {
				sb.WriteString(m.styles.Muted.Render("  [image attached]") + "\n")
			}
			sb.WriteString(m.styles.UserText.Render(msg.Text))
			sb.WriteString("\n")

		default:
			sb.WriteString(m.styles.AssistantLabel.Render("DBU AI") + "\n")
			sb.WriteString(m.safeRenderMarkdown(msg.Text))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// safeRenderMarkdown renders markdown with panic recovery
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return strings.TrimRight(rendered, "\n")
		}
	}
	return content
}

func (m Model) renderStatus() string {
	var lines []string

	if m.manager.InFlight() {
		lines = append(lines, m.spinner.View()+m.styles.Loading.Render(" NEURAL PROCESSING..."))
	} else if m.manager.Listening() {
		lines = append(lines, m.styles.Error.Render("● listening..."))
	} else {
		lines = append(lines, "")
	}

	switch {
	case m.status != "":
		lines = append(lines, m.styles.Error.Render(m.status))
	case m.manager.Pending().Attachment != nil:
		att := m.manager.Pending().Attachment
		lines = append(lines, m.styles.Attachment.Render(
			fmt.Sprintf("Image Selected: %s", att.Name))+m.styles.Muted.Render(" (ctrl+x to cancel)"))
	default:
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString(m.styles.SidebarTitle.Render("RECENT SESSIONS"))
	sb.WriteString("\n")

	entries := m.manager.Archive()
	if len(entries) == 0 {
		sb.WriteString(m.styles.Muted.Render("No past sessions"))
		sb.WriteString("\n")
	}
	for _, e := range entries {
		sb.WriteString(m.styles.SidebarItem.MaxWidth(sidebarWidth - 2).Render(e.Title))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.UserLabel.Render("+ New Session (ctrl+n)"))

	height := m.height - headerHeight - footerHeight
	if height < 1 {
		height = 1
	}
	return m.styles.Sidebar.Width(sidebarWidth).Height(height).Render(sb.String())
}
