package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/tranquil/internal/history"
	"github.com/balkashynov/tranquil/internal/models"
	"github.com/balkashynov/tranquil/internal/parser"
	"github.com/balkashynov/tranquil/internal/watch"
)

// historyScreen is the history.View the lister drives. Model copies share
// it, and it is only touched from Update.
type historyScreen struct {
	reloads     int
	refreshing  bool
	unavailable *watch.GateState
}

func (s *historyScreen) Reload()        { s.reloads++ }
func (s *historyScreen) EndRefreshing() { s.refreshing = false }

func (s *historyScreen) ShowUnavailable(state watch.GateState) {
	s.unavailable = &state
}

// renderedRow is a row that went through Lister.Row
type renderedRow struct {
	index  int
	row    history.Row
	sample models.Sample
}

// HistoryModel represents the TUI model for the sample history
type HistoryModel struct {
	width  int
	height int

	screen  *historyScreen
	lister  *history.Lister
	spinner spinner.Model

	selected    int
	currentPage int
	rowsPerPage int

	// Rows of the current page, rendered once per reload or page change
	rows         []renderedRow
	renderedAt   int
	renderedPage int
}

// loadMsg asks the lister for its first query
type loadMsg struct{}

// NewHistoryModel creates a history model and the view its lister must use
func NewHistoryModel() (HistoryModel, history.View) {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	screen := &historyScreen{refreshing: true}
	return HistoryModel{
		screen:       screen,
		spinner:      sp,
		rowsPerPage:  10,
		renderedAt:   -1,
		renderedPage: -1,
	}, screen
}

// WithLister binds the lister behind this model
func (m HistoryModel) WithLister(l *history.Lister) HistoryModel {
	m.lister = l
	return m
}

// Init initializes the model
func (m HistoryModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return loadMsg{} },
		m.spinner.Tick,
	)
}

// Update handles messages
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case loadMsg:
		m.lister.Load()

	case dispatchMsg:
		msg.fn()

	case spinner.TickMsg:
		if m.screen.refreshing {
			m.spinner, cmd = m.spinner.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Height - header(2) - columns(2) - pagination(2) - help(1) - borders(4)
		available := m.height - 11
		if available < 3 {
			available = 3
		}
		m.rowsPerPage = available
		m.currentPage = m.selected / m.rowsPerPage
		m.renderedPage = -1

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r", "R":
			// Pull to refresh
			if !m.screen.refreshing {
				m.screen.refreshing = true
				m.selected = 0
				m.currentPage = 0
				m.lister.Refresh()
				cmd = m.spinner.Tick
			}
		case "up", "k":
			m = m.moveSelectionUp()
		case "down", "j":
			m = m.moveSelectionDown()
		case "left", "h":
			m = m.prevPage()
		case "right", "l":
			m = m.nextPage()
		}
	}

	return m.syncRows(), cmd
}

// syncRows renders the current page through the lister when rows come into
// view, either after a reload or a page change
func (m HistoryModel) syncRows() HistoryModel {
	if m.lister == nil {
		return m
	}
	if m.renderedAt == m.screen.reloads && m.renderedPage == m.currentPage {
		return m
	}

	total := m.lister.Len()
	if m.selected >= total {
		m.selected = max(total-1, 0)
	}
	if m.currentPage > 0 && m.currentPage*m.rowsPerPage >= total {
		m.currentPage = m.selected / m.rowsPerPage
	}

	start := m.currentPage * m.rowsPerPage
	end := min(start+m.rowsPerPage, total)
	rows := make([]renderedRow, 0, max(end-start, 0))
	for i := start; i < end; i++ {
		row, ok := m.lister.Row(i)
		if !ok {
			continue
		}
		sample, _ := m.lister.Sample(i)
		rows = append(rows, renderedRow{index: i, row: row, sample: sample})
	}

	m.rows = rows
	m.renderedAt = m.screen.reloads
	m.renderedPage = m.currentPage
	return m
}

// moveSelectionUp moves the selection up
func (m HistoryModel) moveSelectionUp() HistoryModel {
	if m.selected > 0 {
		m.selected--
		// Auto-pagination: if we scrolled above current page, go to previous page
		if m.selected < m.currentPage*m.rowsPerPage && m.currentPage > 0 {
			m.currentPage--
		}
	}
	return m
}

// moveSelectionDown moves the selection down
func (m HistoryModel) moveSelectionDown() HistoryModel {
	total := m.lister.Len()
	if m.selected < total-1 {
		m.selected++
		// Auto-pagination: if we scrolled below current page, go to next page
		if m.selected >= (m.currentPage+1)*m.rowsPerPage {
			m.currentPage++
		}
	}
	return m
}

// prevPage goes to previous page
func (m HistoryModel) prevPage() HistoryModel {
	if m.currentPage > 0 {
		m.currentPage--
		m.selected = m.currentPage * m.rowsPerPage
	}
	return m
}

// nextPage goes to next page
func (m HistoryModel) nextPage() HistoryModel {
	if m.currentPage < m.pageCount()-1 {
		m.currentPage++
		m.selected = m.currentPage * m.rowsPerPage
	}
	return m
}

func (m HistoryModel) pageCount() int {
	total := m.lister.Len()
	if total == 0 {
		return 1
	}
	return (total + m.rowsPerPage - 1) / m.rowsPerPage
}

// View renders the TUI
func (m HistoryModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Calculate layout
	leftWidth := m.width * 60 / 100        // 60% for table
	rightWidth := m.width - leftWidth - 1 // Rest for details

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTable(leftWidth),
		" ",
		m.renderDetails(rightWidth),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		"",
		content,
		"",
		m.renderHelpBar(),
	)
}

// renderTable renders the left panel with the sample table
func (m HistoryModel) renderTable(width int) string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))

	if m.screen.refreshing {
		b.WriteString(headerStyle.Render(m.spinner.View() + " Querying health store ..."))
	} else {
		b.WriteString(headerStyle.Render("♥ Heart rate · last " + formatWindow(m.lister.Window)))
	}
	b.WriteString("\n\n")

	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true)

	if state := m.screen.unavailable; state != nil {
		msg := "Health data not available"
		if *state == watch.GateDenied {
			msg = "Health data not available: access denied"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Render(msg))
		return m.tableBorder(width).Render(b.String())
	}

	if len(m.rows) == 0 {
		if !m.screen.refreshing {
			b.WriteString(emptyStyle.Render("No samples found"))
		}
		return m.tableBorder(width).Render(b.String())
	}

	columnHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		Padding(0, 1)

	valueWidth := 8
	dateWidth := 14
	ageWidth := width - valueWidth - dateWidth - 10
	if ageWidth < 10 {
		ageWidth = 10
	}

	headers := fmt.Sprintf("%-*s %-*s %-*s",
		valueWidth, "BPM",
		dateWidth, "DATE",
		ageWidth, "AGE")
	b.WriteString(columnHeaderStyle.Render(headers))
	b.WriteString("\n\n")

	now := time.Now()
	for _, r := range m.rows {
		value := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHeart)).Render(fmt.Sprintf("%-*s", valueWidth, r.row.Title))
		date := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Render(fmt.Sprintf("%-*s", dateWidth, r.row.Detail))
		age := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(parser.FormatAge(r.sample.StartDate, now))
		rowContent := value + " " + date + " " + age

		if r.index == m.selected {
			selectedStyle := lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorAccentMain)).
				Bold(true).
				Padding(0, 1)
			b.WriteString(selectedStyle.Render(rowContent))
		} else {
			b.WriteString(" " + rowContent)
		}
		b.WriteString("\n")
	}

	// Pagination info
	if total := m.lister.Len(); m.rowsPerPage < total {
		pageInfo := fmt.Sprintf("Page %d/%d (%d samples)", m.currentPage+1, m.pageCount(), total)
		pageStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Align(lipgloss.Center).
			Width(width - 2).
			MarginTop(1)
		b.WriteString(pageStyle.Render(pageInfo))
	}

	return m.tableBorder(width).Render(b.String())
}

func (m HistoryModel) tableBorder(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width)
}

// renderDetails renders the right panel with the selected sample
func (m HistoryModel) renderDetails(width int) string {
	var b strings.Builder

	var selected *renderedRow
	for i := range m.rows {
		if m.rows[i].index == m.selected {
			selected = &m.rows[i]
		}
	}

	if selected == nil {
		logoStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentMain)).
			Bold(true).
			Align(lipgloss.Center).
			Width(width)
		b.WriteString(logoStyle.Render("tranquil"))

		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Align(lipgloss.Center).
			Width(width).
			MarginTop(2)
		b.WriteString("\n")
		b.WriteString(emptyStyle.Render("Select a sample to view details"))
	} else {
		s := selected.sample
		label := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))

		titleStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorHeart)).
			Width(width)
		b.WriteString(titleStyle.Render(fmt.Sprintf("♥ %s %s", selected.row.Title, s.Unit)))
		b.WriteString("\n\n")

		b.WriteString(label.Render("Kind: "))
		b.WriteString(s.Kind.Label())
		b.WriteString("\n")

		b.WriteString(label.Render("Taken: "))
		b.WriteString(s.StartDate.Local().Format("Mon Jan 02, 15:04:05"))
		b.WriteString("\n")

		if s.Source != "" {
			b.WriteString(label.Render("Source: "))
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render(s.Source))
			b.WriteString("\n")
		}

		if s.WorkoutID != nil {
			b.WriteString(label.Render("Workout: "))
			b.WriteString(fmt.Sprintf("#%d", *s.WorkoutID))
			b.WriteString("\n")
		}

		b.WriteString("\n")
		b.WriteString(label.Render("Mirrored at:"))
		b.WriteString("\n")
		pathStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorAccentMain)).
			Italic(true).
			Width(width - 2)
		b.WriteString(pathStyle.Render(selected.row.Path))
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width)

	return borderStyle.Render(b.String())
}

// renderHelpBar renders the help bar with hotkey hints
func (m HistoryModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	helpText := "↑/↓ nav · ←/→ page · r refresh · q/esc quit"
	return helpStyle.Render(helpText)
}

// formatWindow formats a look-back window in days or hours
func formatWindow(d time.Duration) string {
	day := 24 * time.Hour
	if d%day == 0 {
		days := int(d / day)
		if days == 1 {
			return "day"
		}
		return fmt.Sprintf("%d days", days)
	}
	return fmt.Sprintf("%d hours", int(d.Hours()))
}
