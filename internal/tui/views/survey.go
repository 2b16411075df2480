package views

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/benjamintian2005/AITripPlanner/internal/engine/geo"
	"github.com/benjamintian2005/AITripPlanner/internal/model"
	"github.com/benjamintian2005/AITripPlanner/internal/survey"
	"github.com/benjamintian2005/AITripPlanner/internal/tui/styles"
)

// LocationDeps is what the survey needs to resolve the current location.
type LocationDeps struct {
	// Resolver builds a resolver gated by p.
	Resolver func(p geo.Permission) survey.LocationResolver
	// Permission answers without prompting when set.
	Permission geo.Permission
	// Consent remembers "always allow". Used when Permission is nil.
	Consent *geo.ConsentStore
}

type rowKind int

const (
	rowPicker rowKind = iota
	rowToggle
	rowText
	rowLocation
	rowCustom
	rowCurrent
)

type surveyRow struct {
	kind  rowKind
	field survey.Field
	label string
}

var personalRows = []surveyRow{
	{rowPicker, survey.FieldGender, "Gender *"},
	{rowPicker, survey.FieldAgeRange, "Age Range *"},
	{rowPicker, survey.FieldEthnicity, "Ethnicity"},
}

var tripRows = []surveyRow{
	{rowPicker, survey.FieldBudgetTier, "Budget *"},
	{rowPicker, survey.FieldGroupType, "Group Type *"},
	{rowPicker, survey.FieldGroupSize, "Group Size *"},
	{rowToggle, survey.FieldChildFriendly, "Child Friendly"},
	{rowText, survey.FieldDurationDays, "Duration (days) *"},
	{rowLocation, survey.FieldLocation, "Location *"},
}

// surveyShared lives behind a pointer so the cancel func survives bubbletea's value copies.
type surveyShared struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// SurveyModel is the two-section trip survey.
type SurveyModel struct {
	form     *survey.Form
	recorder *survey.Recorder
	loc      LocationDeps
	logger   *log.Logger
	shared   *surveyShared

	focused    int
	duration   textinput.Model
	custom     textinput.Model
	spinner    spinner.Model
	progress   progress.Model
	notice     *model.Notice
	askConsent bool
}

type locationResolvedMsg struct {
	ticket survey.Ticket
	res    geo.Resolution
	err    error
}

func NewSurveyModel(saver survey.SubmissionSaver, loc LocationDeps, logger *log.Logger) SurveyModel {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	ctx, cancel := context.WithCancel(context.Background())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return SurveyModel{
		form:     survey.NewForm(),
		recorder: survey.NewRecorder(saver),
		loc:      loc,
		logger:   logger,
		shared:   &surveyShared{ctx: ctx, cancel: cancel},
		duration: newInput("e.g. 7", "", 10),
		custom:   newInput("City, region or country", "", 40),
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func newInput(placeholder, value string, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	if width > 0 {
		ti.Width = width
	}
	if value != "" {
		ti.SetValue(value)
	}
	return ti
}

func (m SurveyModel) Init() tea.Cmd {
	return nil
}

// Close tears the survey down. In-flight resolutions are cancelled and their results discarded.
func (m SurveyModel) Close() {
	m.shared.cancel()
	m.form.Close()
}

func (m SurveyModel) rows() []surveyRow {
	if m.form.Section() == survey.SectionPersonal {
		return personalRows
	}
	rows := append([]surveyRow(nil), tripRows...)
	if m.form.Selection().IsCustom() {
		rows = append(rows, surveyRow{kind: rowCustom, field: survey.FieldLocation, label: "Custom Location"})
	}
	// Current location is offered only in custom mode; an in-flight lookup keeps its spinner.
	if m.form.Selection().IsCustom() || m.form.Resolving() {
		rows = append(rows, surveyRow{kind: rowCurrent, label: ""})
	}
	return rows
}

// canLocate reports whether "use current location" is unlocked.
func (m SurveyModel) canLocate() bool {
	return m.form.Section() == survey.SectionTrip && m.form.Selection().IsCustom()
}

func (m SurveyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case locationResolvedMsg:
		m.applyResolution(msg)
		return m, m.syncFocus()
	case spinner.TickMsg:
		if !m.form.Resolving() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and friends go to the focused input.
	return m.updateInput(msg)
}

func (m SurveyModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.notice != nil {
		if isDismissKey(key) {
			m.notice = nil
		}
		return m, nil
	}
	if m.askConsent {
		return m.handleConsentKey(key)
	}

	rows := m.rows()
	m.clampFocus()
	row := rows[m.focused]

	switch key {
	case "esc":
		if m.form.Section() == survey.SectionTrip {
			m.form.Back()
			m.focused = 0
			return m, m.syncFocus()
		}
		m.Close()
		return m, func() tea.Msg { return NavigateToHome{} }
	case "up", "shift+tab":
		m.focused = (m.focused - 1 + len(rows)) % len(rows)
		return m, m.syncFocus()
	case "down", "tab":
		m.focused = (m.focused + 1) % len(rows)
		return m, m.syncFocus()
	case "left", "right":
		dir := 1
		if key == "left" {
			dir = -1
		}
		switch row.kind {
		case rowPicker, rowLocation:
			m.cycle(row, dir)
			return m, m.syncFocus()
		case rowToggle:
			m.form.ToggleChildFriendly()
			return m, nil
		}
	case " ":
		if row.kind == rowToggle {
			m.form.ToggleChildFriendly()
			return m, nil
		}
	case "ctrl+l":
		if m.canLocate() {
			return m.startResolve()
		}
		return m, nil
	case "enter":
		if row.kind == rowCurrent {
			if !m.canLocate() {
				return m, nil
			}
			return m.startResolve()
		}
		return m.advance()
	}

	return m.updateInput(msg)
}

func (m SurveyModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	rows := m.rows()
	if m.focused >= len(rows) {
		return m, nil
	}
	var cmd tea.Cmd
	switch rows[m.focused].kind {
	case rowText:
		if !numericInput(msg) {
			return m, nil
		}
		before := m.duration.Value()
		m.duration, cmd = m.duration.Update(msg)
		if v := m.duration.Value(); v != before {
			m.form.SetField(survey.FieldDurationDays, v)
		}
	case rowCustom:
		before := m.custom.Value()
		m.custom, cmd = m.custom.Update(msg)
		if v := m.custom.Value(); v != before {
			m.form.SetCustomLocation(v)
		}
	}
	return m, cmd
}

// numericInput rejects typed or pasted runes that are not digits.
func numericInput(msg tea.Msg) bool {
	km, ok := msg.(tea.KeyMsg)
	if !ok || km.Type != tea.KeyRunes {
		return true
	}
	for _, r := range km.Runes {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (m *SurveyModel) cycle(row surveyRow, dir int) {
	if row.kind == rowLocation {
		opts := survey.LocationOptions()
		i := (optionIndex(opts, m.form.PickerValue()) + dir + len(opts)) % len(opts)
		if m.form.SelectLocation(opts[i].Value) && m.form.Selection().IsCustom() {
			m.custom.SetValue("")
		}
		return
	}
	opts := survey.Options(row.field)
	if len(opts) == 0 {
		return
	}
	i := (optionIndex(opts, fieldValue(m.form.Record(), row.field)) + dir + len(opts)) % len(opts)
	m.form.SetField(row.field, opts[i].Value)
}

func optionIndex(opts []survey.Option, value string) int {
	for i, o := range opts {
		if o.Value == value {
			return i
		}
	}
	return 0
}

func fieldValue(r model.Record, f survey.Field) string {
	switch f {
	case survey.FieldGender:
		return r.Gender
	case survey.FieldAgeRange:
		return r.AgeRange
	case survey.FieldEthnicity:
		return r.Ethnicity
	case survey.FieldBudgetTier:
		return r.BudgetTier
	case survey.FieldGroupType:
		return r.GroupType
	case survey.FieldGroupSize:
		return r.GroupSize
	case survey.FieldDurationDays:
		return r.DurationDays
	case survey.FieldLocation:
		return r.LocationLabel
	}
	return ""
}

func (m *SurveyModel) clampFocus() {
	n := len(m.rows())
	if m.focused >= n {
		m.focused = n - 1
	}
	if m.focused < 0 {
		m.focused = 0
	}
}

func (m *SurveyModel) syncFocus() tea.Cmd {
	m.clampFocus()
	m.duration.Blur()
	m.custom.Blur()
	switch m.rows()[m.focused].kind {
	case rowText:
		m.duration.Focus()
		return textinput.Blink
	case rowCustom:
		m.custom.Focus()
		return textinput.Blink
	}
	return nil
}

func (m *SurveyModel) showNotice(err error) {
	n := survey.NoticeFor(err)
	m.notice = &n
}

// advance moves personal -> trip, or submits from trip.
func (m SurveyModel) advance() (tea.Model, tea.Cmd) {
	if m.form.Section() == survey.SectionPersonal {
		if err := m.form.Next(); err != nil {
			m.showNotice(err)
			return m, nil
		}
		m.focused = 0
		return m, m.syncFocus()
	}

	if err := m.form.Submit(m.recorder); err != nil {
		m.logger.Printf("SUBMIT rejected err=%v", err)
		m.showNotice(err)
		return m, nil
	}
	sub := m.recorder.Last()
	m.logger.Printf("SUBMIT id=%s label=%q gps=%t", sub.ID, sub.LocationLabel, sub.HasCoordinates())
	m.Close()
	return m, func() tea.Msg { return NavigateToEvent{Submission: sub} }
}

func (m SurveyModel) startResolve() (tea.Model, tea.Cmd) {
	if m.form.Resolving() {
		m.showNotice(survey.ErrResolveInFlight)
		return m, nil
	}
	if m.loc.Permission != nil {
		return m.resolveWith(m.loc.Permission)
	}
	if m.loc.Consent != nil {
		switch m.loc.Consent.Decision() {
		case geo.DecisionGranted:
			return m.resolveWith(geo.StaticPermission(true))
		case geo.DecisionDenied:
			return m.resolveWith(geo.StaticPermission(false))
		}
	}
	m.askConsent = true
	return m, nil
}

func (m SurveyModel) handleConsentKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y":
		m.askConsent = false
		return m.resolveWith(geo.StaticPermission(true))
	case "a":
		m.askConsent = false
		if m.loc.Consent != nil {
			if err := m.loc.Consent.Remember(geo.DecisionGranted); err != nil {
				m.logger.Printf("CONSENT error err=%v", err)
			}
		}
		return m.resolveWith(geo.StaticPermission(true))
	case "n", "esc":
		m.askConsent = false
		return m.resolveWith(geo.StaticPermission(false))
	}
	return m, nil
}

func (m SurveyModel) resolveWith(p geo.Permission) (tea.Model, tea.Cmd) {
	ticket, err := m.form.BeginResolve()
	if err != nil {
		m.showNotice(err)
		return m, nil
	}
	resolver := m.loc.Resolver(p)
	ctx := m.shared.ctx
	m.logger.Printf("RESOLVE start ticket=%d", ticket)

	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		res, err := resolver.Resolve(ctx)
		return locationResolvedMsg{ticket: ticket, res: res, err: err}
	})
}

func (m *SurveyModel) applyResolution(msg locationResolvedMsg) {
	err := m.form.CompleteResolve(msg.ticket, msg.res, msg.err)
	switch {
	case errors.Is(err, survey.ErrStaleResolution):
		m.logger.Printf("RESOLVE discarded ticket=%d", msg.ticket)
	case err != nil:
		m.showNotice(err)
	default:
		m.custom.SetValue(msg.res.Label)
		// Keep focus on the current-location action now that the custom row is shown.
		rows := m.rows()
		m.focused = len(rows) - 1
	}
}

func (m SurveyModel) View() string {
	var b strings.Builder

	step := "Step 1 of 2 · Personal Information"
	if m.form.Section() == survey.SectionTrip {
		step = "Step 2 of 2 · Trip Details"
	}
	b.WriteString(styles.Title.Render("Plan Your Trip") + "\n")
	b.WriteString(styles.Subtitle.Render(step) + "\n\n")
	b.WriteString(m.progress.ViewAs(m.form.Completion()))
	b.WriteString("\n\n")

	for i, row := range m.rows() {
		b.WriteString(m.renderRow(row, i == m.focused))
	}

	var status string
	if m.form.Section() == survey.SectionPersonal {
		status = "↑↓ move • ←→ choose • enter next • esc cancel"
	} else if m.canLocate() {
		status = "↑↓ move • ←→ choose • space toggle • ctrl+l locate • enter submit • esc back"
	} else {
		status = "↑↓ move • ←→ choose • space toggle • enter submit • esc back"
	}
	b.WriteString("\n")
	b.WriteString(styles.StatusBar.Render(status))

	out := styles.Border.Render(b.String())
	switch {
	case m.notice != nil:
		out = lipgloss.JoinVertical(lipgloss.Center, out, renderNotice(*m.notice))
	case m.askConsent:
		out = lipgloss.JoinVertical(lipgloss.Center, out, renderConsentPrompt())
	}
	return out
}

func (m SurveyModel) renderRow(row surveyRow, focused bool) string {
	cursor := "  "
	if focused {
		cursor = styles.Key.Render("> ")
	}
	rec := m.form.Record()
	label := styles.Label.Render(row.label)

	switch row.kind {
	case rowPicker:
		return cursor + label + " " + renderChoice(survey.OptionLabel(row.field, fieldValue(rec, row.field)), fieldValue(rec, row.field) == "", focused) + "\n"

	case rowToggle:
		box := "[ ] No"
		if rec.ChildFriendly {
			box = "[x] Yes"
		}
		style := styles.InactiveItem
		if focused {
			style = styles.ActiveItem
		}
		return cursor + label + " " + style.Render(box) + "\n"

	case rowText:
		return cursor + label + " " + m.duration.View() + "\n"

	case rowLocation:
		pickerLabel := "Select a location"
		for _, o := range survey.LocationOptions() {
			if o.Value == m.form.PickerValue() {
				pickerLabel = o.Label
			}
		}
		line := cursor + label + " " + renderChoice(pickerLabel, m.form.PickerValue() == "", focused) + "\n"
		if rec.LocationLabel != "" {
			detail := "→ " + rec.LocationLabel
			if c := rec.Coordinates; c != nil {
				detail += fmt.Sprintf("  (%.4f, %.4f)", c.Lat, c.Lng)
			}
			line += strings.Repeat(" ", 21) + styles.Hint.Render(detail) + "\n"
		}
		return line

	case rowCustom:
		return cursor + label + " " + m.custom.View() + "\n"

	case rowCurrent:
		if m.form.Resolving() {
			return "\n" + cursor + m.spinner.View() + " " + styles.Hint.Render("Getting your location...") + "\n"
		}
		btn := styles.InactiveItem.Render("[ Use Current Location ]")
		if focused {
			btn = styles.ActiveItem.Render("[ Use Current Location ]")
		}
		return "\n" + cursor + btn + "\n"
	}
	return ""
}

func renderChoice(label string, placeholder, focused bool) string {
	style := styles.Value
	if placeholder {
		style = styles.Hint
	}
	if focused {
		return styles.Key.Render("‹ ") + style.Bold(true).Render(label) + styles.Key.Render(" ›")
	}
	return "  " + style.Render(label)
}

func renderConsentPrompt() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Render("Location Access"))
	b.WriteString("\n\n")
	b.WriteString(styles.Value.Render("Allow tripadapt to use your current location?"))
	b.WriteString("\n\n")
	b.WriteString(styles.Key.Render("[y]") + " allow once  ")
	b.WriteString(styles.Key.Render("[a]") + " always allow  ")
	b.WriteString(styles.Key.Render("[n]") + " deny")
	return styles.Notice.Render(b.String())
}

// NavigateToEvent shows the recommended event for a stored submission.
type NavigateToEvent struct {
	Submission model.Submission
	Flash      string
}
