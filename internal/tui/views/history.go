package views

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"

	"github.com/benjamintian2005/AITripPlanner/internal/engine/geo"
	"github.com/benjamintian2005/AITripPlanner/internal/export"
	"github.com/benjamintian2005/AITripPlanner/internal/model"
	"github.com/benjamintian2005/AITripPlanner/internal/survey"
	"github.com/benjamintian2005/AITripPlanner/internal/tui/components"
	"github.com/benjamintian2005/AITripPlanner/internal/tui/styles"
)

// SubmissionLister reads stored submissions, newest first.
type SubmissionLister interface {
	ListSubmissions() ([]model.Submission, error)
}

type focusArea int

const (
	focusTable focusArea = iota
	focusFilter
	focusCard
	focusSide
)

// HistoryModel browses stored submissions with a table and two detail panels.
type HistoryModel struct {
	store      SubmissionLister
	boundaries *geo.BoundaryStore
	exportDir  string

	subs      []model.Submission
	filtered  []model.Submission
	table     table.Model
	filter    textinput.Model
	focus     focusArea
	selected  int
	width     int
	height    int
	err       error
	exportMsg string

	cardScrollY int
	cardLines   []string
	jsonScrollY int
	jsonLines   []string
	jsonRaw     string

	showMap  bool
	mapView  components.MapView
	pointIdx []int // filtered index -> map point index, -1 without coordinates
	country  string
}

type historyLoadedMsg struct {
	Submissions []model.Submission
	Err         error
}

func NewHistoryModel(store SubmissionLister, boundaries *geo.BoundaryStore, exportDir string) HistoryModel {
	filter := textinput.New()
	filter.Placeholder = "Type to filter..."
	filter.CharLimit = 50

	return HistoryModel{
		store:      store,
		boundaries: boundaries,
		exportDir:  exportDir,
		filter:     filter,
		selected:   -1,
		mapView:    components.NewMapView(40, 10),
	}
}

func (m HistoryModel) Init() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		subs, err := store.ListSubmissions()
		return historyLoadedMsg{Submissions: subs, Err: err}
	}
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
	case tea.KeyMsg:
		key := msg.String()

		switch m.focus {
		case focusTable:
			switch key {
			case "esc", "q":
				return m, func() tea.Msg { return NavigateToHome{} }
			case "/", "tab":
				m.focus = focusFilter
				m.filter.Focus()
				return m, textinput.Blink
			case "1":
				m.focus = focusCard
				m.table.SetStyles(unfocusedTableStyles())
				return m, nil
			case "2":
				m.focus = focusSide
				m.table.SetStyles(unfocusedTableStyles())
				return m, nil
			case "m":
				m.showMap = !m.showMap
				return m, nil
			case "e":
				m.exportTo(export.FormatCSV)
				return m, nil
			case "g":
				m.exportTo(export.FormatGeoJSON)
				return m, nil
			}

		case focusFilter:
			switch key {
			case "esc", "enter", "tab":
				m.focus = focusTable
				m.filter.Blur()
				return m, nil
			}

		case focusCard:
			switch key {
			case "esc":
				m.focus = focusTable
				m.table.SetStyles(focusedTableStyles())
			case "up", "k":
				if m.cardScrollY > 0 {
					m.cardScrollY--
				}
			case "down", "j":
				if m.cardScrollY < maxScroll(len(m.cardLines), m.panelHeight()) {
					m.cardScrollY++
				}
			}
			return m, nil

		case focusSide:
			if key == "esc" {
				m.focus = focusTable
				m.table.SetStyles(focusedTableStyles())
				return m, nil
			}
			if key == "m" {
				m.showMap = !m.showMap
				return m, nil
			}
			if m.showMap {
				m.handleMapKey(key)
			} else {
				m.handleJSONKey(key)
			}
			return m, nil
		}

	case historyLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.subs = msg.Submissions
		m.filtered = msg.Submissions
		m.buildTable(m.filtered)
		m.updateLayout()
		m.selectRow(0)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusTable:
		m.table, cmd = m.table.Update(msg)
		if cursor := m.table.Cursor(); cursor != m.selected && cursor < len(m.filtered) {
			m.selectRow(cursor)
		}
	case focusFilter:
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
	}
	return m, cmd
}

func (m *HistoryModel) handleJSONKey(key string) {
	switch key {
	case "up", "k":
		if m.jsonScrollY > 0 {
			m.jsonScrollY--
		}
	case "down", "j":
		if m.jsonScrollY < maxScroll(len(m.jsonLines), m.panelHeight()) {
			m.jsonScrollY++
		}
	case "c":
		m.copyToClipboard()
	}
}

func (m *HistoryModel) handleMapKey(key string) {
	const step = 2.0
	switch key {
	case "+", "=":
		m.mapView.ZoomIn()
	case "-":
		m.mapView.ZoomOut()
	case "0":
		m.mapView.ZoomReset()
	case "up", "k":
		m.mapView.Pan(step, 0)
	case "down", "j":
		m.mapView.Pan(-step, 0)
	case "left", "h":
		m.mapView.Pan(0, -step)
	case "right", "l":
		m.mapView.Pan(0, step)
	}
}

func maxScroll(lines, h int) int {
	return max(lines-h, 0)
}

// selectRow makes filtered[idx] the current submission, or clears the selection.
func (m *HistoryModel) selectRow(idx int) {
	m.cardScrollY = 0
	m.jsonScrollY = 0
	if idx < 0 || idx >= len(m.filtered) {
		m.selected = -1
		m.cardLines = nil
		m.jsonLines = nil
		m.jsonRaw = ""
		m.mapView.SetSelected(-1)
		m.setCountry("")
		return
	}
	m.selected = idx

	sub := m.filtered[idx]
	m.cardLines = buildCardLines(sub)

	data, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		m.jsonLines = []string{"JSON error"}
		m.jsonRaw = ""
	} else {
		m.jsonRaw = string(data)
		m.jsonLines = strings.Split(m.jsonRaw, "\n")
	}

	m.mapView.SetSelected(m.pointIdx[idx])
	country := ""
	if sub.Coordinates != nil && m.boundaries != nil {
		country, _ = m.boundaries.CountryAt(*sub.Coordinates)
	}
	m.setCountry(country)
}

// setCountry outlines the named country on the map, or clears the outline.
func (m *HistoryModel) setCountry(country string) {
	if country == m.country {
		return
	}
	m.country = country
	if country == "" || m.boundaries == nil {
		m.mapView.SetBorder(nil)
		return
	}
	mp, err := m.boundaries.GetCountryPolygon(country)
	if err != nil {
		m.mapView.SetBorder(nil)
		return
	}
	m.mapView.SetBorder(mp)
}

func buildCardLines(sub model.Submission) []string {
	var lines []string
	lines = append(lines, sub.LocationLabel)
	lines = append(lines, sub.SubmittedAt.Local().Format("2006-01-02 15:04")+" ("+timeAgo(sub.SubmittedAt)+")")
	lines = append(lines, "")

	addRow := func(label, value string) {
		if value != "" {
			lines = append(lines, fmt.Sprintf("%-10s %s", label, value))
		}
	}
	addRow("Gender:", survey.OptionLabel(survey.FieldGender, sub.Gender))
	addRow("Age:", survey.OptionLabel(survey.FieldAgeRange, sub.AgeRange))
	addRow("Ethnicity:", survey.OptionLabel(survey.FieldEthnicity, sub.Ethnicity))
	addRow("Budget:", survey.OptionLabel(survey.FieldBudgetTier, sub.BudgetTier))
	addRow("Group:", survey.OptionLabel(survey.FieldGroupType, sub.GroupType))
	addRow("Size:", survey.OptionLabel(survey.FieldGroupSize, sub.GroupSize))
	addRow("Days:", sub.DurationDays)
	if sub.ChildFriendly {
		addRow("Kids:", "Child friendly")
	}
	if c := sub.Coordinates; c != nil {
		addRow("Coords:", fmt.Sprintf("%.6f, %.6f", c.Lat, c.Lng))
	}
	addRow("ID:", sub.ID)
	return lines
}

func (m *HistoryModel) buildTable(subs []model.Submission) {
	whenW := 10
	locW := 28
	budgetW := 16
	groupW := 12
	daysW := 5
	gpsW := 4
	if m.width > 100 {
		extra := m.width - 100
		locW += extra * 6 / 10
		budgetW += extra * 2 / 10
		groupW += extra * 2 / 10
	}

	columns := []table.Column{
		{Title: "Submitted", Width: whenW},
		{Title: "Location", Width: locW},
		{Title: "Budget", Width: budgetW},
		{Title: "Group", Width: groupW},
		{Title: "Days", Width: daysW},
		{Title: "GPS", Width: gpsW},
	}

	rows := make([]table.Row, len(subs))
	var points []orb.Point
	m.pointIdx = make([]int, len(subs))
	for i, s := range subs {
		gps := ""
		m.pointIdx[i] = -1
		if s.Coordinates != nil {
			gps = "yes"
			m.pointIdx[i] = len(points)
			points = append(points, s.Coordinates.Point())
		}
		rows[i] = table.Row{
			timeAgo(s.SubmittedAt),
			truncate(s.LocationLabel, locW),
			truncate(survey.OptionLabel(survey.FieldBudgetTier, s.BudgetTier), budgetW),
			truncate(survey.OptionLabel(survey.FieldGroupType, s.GroupType), groupW),
			s.DurationDays,
			gps,
		}
	}
	m.mapView.SetPoints(points)

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height/2-4, 5)),
	)
	if m.focus == focusCard || m.focus == focusSide {
		t.SetStyles(unfocusedTableStyles())
	} else {
		t.SetStyles(focusedTableStyles())
	}
	m.table = t
}

func focusedTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Secondary)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(styles.Primary).
		Bold(true)
	return s
}

func unfocusedTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Muted)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(lipgloss.Color("#333333")).
		Bold(false)
	return s
}

func (m HistoryModel) panelHeight() int {
	return max(m.height/2-6, 6)
}

func (m *HistoryModel) updateLayout() {
	if m.width <= 0 {
		return
	}
	m.buildTable(m.filtered)
	if m.selected >= 0 && m.selected < len(m.filtered) {
		m.table.SetCursor(m.selected)
	}
	_, sideW := m.panelWidths()
	m.mapView.SetSize(max(sideW-4, 20), m.panelHeight())
}

func (m HistoryModel) panelWidths() (card, side int) {
	detailW := max(m.width-2, 40)
	card = detailW * 2 / 5
	return card, detailW - card - 1
}

// matchSubmissions keeps submissions whose text contains every word of query.
func matchSubmissions(subs []model.Submission, query string) []model.Submission {
	raw := strings.TrimSpace(query)
	if raw == "" {
		return subs
	}
	words := strings.Fields(survey.Fold(raw))
	var out []model.Submission
	for _, s := range subs {
		haystack := survey.Fold(strings.Join([]string{
			s.LocationLabel,
			survey.OptionLabel(survey.FieldBudgetTier, s.BudgetTier),
			survey.OptionLabel(survey.FieldGroupType, s.GroupType),
			survey.OptionLabel(survey.FieldEthnicity, s.Ethnicity),
			s.Gender, s.AgeRange, s.DurationDays,
		}, " "))
		match := true
		for _, w := range words {
			if !strings.Contains(haystack, w) {
				match = false
				break
			}
		}
		if match {
			out = append(out, s)
		}
	}
	return out
}

func (m *HistoryModel) applyFilter() {
	m.filtered = matchSubmissions(m.subs, m.filter.Value())
	m.buildTable(m.filtered)
	if len(m.filtered) > 0 {
		m.selectRow(0)
	} else {
		m.selectRow(-1)
	}
}

func (m HistoryModel) View() string {
	if m.err != nil {
		return styles.ErrorText.Render(fmt.Sprintf("Error loading submissions: %v", m.err))
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render(fmt.Sprintf("Past Submissions: %d", len(m.subs))))
	if len(m.filtered) != len(m.subs) {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).
			Render(fmt.Sprintf(" (showing %d)", len(m.filtered))))
	}
	b.WriteString("\n\n")

	filterStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	if m.focus == focusFilter {
		filterStyle = lipgloss.NewStyle().Foreground(styles.Primary)
	}
	b.WriteString(filterStyle.Render("Filter: "))
	b.WriteString(m.filter.View())
	b.WriteString("\n")

	b.WriteString(m.table.View())
	b.WriteString("\n\n")

	panelH := m.panelHeight()
	cardOuterW, sideOuterW := m.panelWidths()

	cardContent := m.viewCardPanel(max(cardOuterW-4, 20), panelH)
	cardBox := renderPanel("[1] Details", cardContent, cardOuterW, panelH, m.focus == focusCard)

	sideLabel, sideContent := "[2] JSON", m.viewJSONPanel(max(sideOuterW-4, 20), panelH)
	if m.showMap {
		sideLabel, sideContent = "[2] Map", m.viewMapPanel()
	}
	sideBox := renderPanel(sideLabel, sideContent, sideOuterW, panelH, m.focus == focusSide)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cardBox, " ", sideBox))
	b.WriteString("\n\n")

	if m.exportMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Success).Render(m.exportMsg))
		b.WriteString("\n")
	}

	var statusText string
	switch m.focus {
	case focusTable:
		statusText = "↑↓ navigate • 1 details • 2 panel • m map/json • / filter • e csv • g geojson • esc back"
	case focusFilter:
		statusText = "type to filter • esc back"
	case focusCard:
		statusText = "↑↓ scroll • esc back to table"
	case focusSide:
		if m.showMap {
			statusText = "←↑↓→ pan • +/- zoom • 0 reset • m json • esc back to table"
		} else {
			statusText = "↑↓ scroll • c copy json • m map • esc back to table"
		}
	}
	b.WriteString(styles.StatusBar.Render(statusText))

	return b.String()
}

func renderPanel(label, content string, outerW, h int, focused bool) string {
	color := styles.Muted
	if focused {
		color = styles.Primary
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Width(outerW - 2).
		Height(h).
		Render(content)
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(label) + "\n" + box
}

func (m HistoryModel) viewCardPanel(w, h int) string {
	if m.selected < 0 || len(m.cardLines) == 0 {
		return lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).
			Render("Select a submission\nto view details")
	}

	lines := m.cardLines
	scrollY := min(m.cardScrollY, maxScroll(len(lines), h))
	end := min(scrollY+h, len(lines))
	visible := lines[scrollY:end]

	var sb strings.Builder
	label := lipgloss.NewStyle().Foreground(styles.Muted)
	valStyle := lipgloss.NewStyle().Foreground(styles.Text)

	for i, line := range visible {
		switch {
		case scrollY+i == 0:
			sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(styles.Text).Render(truncate(line, w)))
		case scrollY+i == 1:
			sb.WriteString(label.Render(truncate(line, w)))
		case strings.HasPrefix(line, "Coords:"):
			sb.WriteString(lipgloss.NewStyle().Foreground(styles.Warning).Render(truncate(line, w)))
		default:
			sb.WriteString(valStyle.Render(truncate(line, w)))
		}
		if i < len(visible)-1 {
			sb.WriteString("\n")
		}
	}

	if scrollY > 0 {
		sb.WriteString("\n" + label.Render("  ▲ more above"))
	}
	if end < len(lines) {
		sb.WriteString("\n" + label.Render("  ▼ more below"))
	}
	return sb.String()
}

func (m HistoryModel) viewJSONPanel(w, h int) string {
	if m.selected < 0 || len(m.jsonLines) == 0 {
		return lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).
			Render("Select a submission\nto view JSON")
	}

	lines := m.jsonLines
	jsonStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Secondary)
	strStyle := lipgloss.NewStyle().Foreground(styles.Success)

	scrollY := min(m.jsonScrollY, maxScroll(len(lines), h))
	end := min(scrollY+h, len(lines))
	visible := lines[scrollY:end]

	var sb strings.Builder
	for i, line := range visible {
		display := truncate(line, w)
		trimmed := strings.TrimSpace(display)
		colonIdx := strings.Index(display, "\":")
		if strings.HasPrefix(trimmed, "\"") && colonIdx > 0 {
			sb.WriteString(keyStyle.Render(display[:colonIdx+1]))
			sb.WriteString(strStyle.Render(display[colonIdx+1:]))
		} else {
			sb.WriteString(jsonStyle.Render(display))
		}
		if i < len(visible)-1 {
			sb.WriteString("\n")
		}
	}

	if scrollY > 0 || end < len(lines) {
		sb.WriteString("\n")
		sb.WriteString(jsonStyle.Render(fmt.Sprintf("  [%d/%d]", scrollY+1, len(lines))))
	}
	return sb.String()
}

func (m HistoryModel) viewMapPanel() string {
	var sb strings.Builder
	sb.WriteString(m.mapView.View())
	caption := "no device-resolved submissions"
	if len(m.pointIdx) > 0 && m.selected >= 0 {
		switch {
		case m.pointIdx[m.selected] < 0:
			caption = "selected submission has no coordinates"
		case m.country != "":
			caption = m.country
		default:
			caption = "outside known boundaries"
		}
	}
	sb.WriteString("\n" + styles.Hint.Render(caption))
	return sb.String()
}

func (m *HistoryModel) copyToClipboard() {
	if m.jsonRaw == "" {
		return
	}
	cmd := exec.Command("pbcopy")
	cmd.Stdin = strings.NewReader(m.jsonRaw)
	if err := cmd.Run(); err != nil {
		m.exportMsg = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	m.exportMsg = "JSON copied to clipboard"
}

func (m *HistoryModel) exportTo(format string) {
	data := m.filtered
	if len(data) == 0 {
		data = m.subs
	}

	name := "tripadapt_" + time.Now().Format("20060102_150405") + export.Ext(format)
	path := filepath.Join(m.exportDir, name)
	n, err := writeExport(path, format, data)
	if err != nil {
		m.exportMsg = fmt.Sprintf("Export error: %v", err)
		return
	}
	m.exportMsg = fmt.Sprintf("Exported %d rows to %s", n, path)
}

func writeExport(path, format string, subs []model.Submission) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := export.Write(f, format, subs)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
