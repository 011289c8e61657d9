package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/a-h/qadocs/client"
	"github.com/a-h/qadocs/console"
	"github.com/a-h/qadocs/models"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

type ConsoleCommand struct {
	ContainerFlags `embed:""`
}

func (c ConsoleCommand) Run(ctx context.Context) (err error) {
	account, err := client.New(c.ServerURL, c.APIKey).Account(ctx)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	m := newConsoleModel(ctx, c.documents(), fmt.Sprintf("%s/%s", c.Kind, c.ContainerID), account.Manager)
	if _, err = tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return nil
}

// Dracula color scheme.
var (
	Background  = lipgloss.Color("#282a36")
	CurrentLine = lipgloss.Color("#44475a")
	Foreground  = lipgloss.Color("#f8f8f2")
	Comment     = lipgloss.Color("#6272a4")
	Cyan        = lipgloss.Color("#8be9fd")
	Green       = lipgloss.Color("#50fa7b")
	Orange      = lipgloss.Color("#ffb86c")
	Pink        = lipgloss.Color("#ff79c6")
	Purple      = lipgloss.Color("#bd93f9")
	Red         = lipgloss.Color("#ff5555")
	Yellow      = lipgloss.Color("#f1fa8c")
)

var (
	titleStyle = lipgloss.NewStyle().Background(CurrentLine).Foreground(Purple).Bold(true).Padding(0, 1)
	helpStyle  = lipgloss.NewStyle().Foreground(Comment)
	emptyStyle = lipgloss.NewStyle().Foreground(Comment).Italic(true).Padding(1, 2)
	modalStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Purple).Padding(0, 1).Margin(1, 0)
	labelStyle = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	tagStyle   = lipgloss.NewStyle().Foreground(Pink).Bold(true)
)

var noticeKindToStyle = map[console.NoticeKind]lipgloss.Style{
	console.NoticeSuccess:    lipgloss.NewStyle().Foreground(Green),
	console.NoticeFailure:    lipgloss.NewStyle().Foreground(Red),
	console.NoticeValidation: lipgloss.NewStyle().Foreground(Orange),
}

type focus int

const (
	focusTable focus = iota
	focusSearch
	focusCreate
	focusDetail
	focusConfirm
)

type listResultMsg console.ListResult

type settleMsg struct {
	seq uint64
}

type createdMsg struct {
	err error
}

type updatedMsg struct {
	doc models.QADocument
	err error
}

// deletedMsg carries the action that issued the delete, so the result is
// finished on it even if another row was selected since.
type deletedMsg struct {
	action *console.RowAction
	err    error
}

type consoleModel struct {
	ctx                context.Context
	api                console.API
	container          string
	embeddingAvailable bool

	list   *console.List
	saving *console.SavingStore
	create *console.CreateForm
	detail *console.Detail
	action *console.RowAction
	// pending holds fetches queued by the refresh callbacks.
	pending []console.Fetch

	focus       focus
	table       table.Model
	search      textinput.Model
	question    textarea.Model
	answer      textarea.Model
	activeField int
	paginator   paginator.Model
	spinner     spinner.Model
	notice      *console.Notice
	width       int
}

func newConsoleModel(ctx context.Context, api console.API, container string, embeddingAvailable bool) *consoleModel {
	m := &consoleModel{
		ctx:                ctx,
		api:                api,
		container:          container,
		embeddingAvailable: embeddingAvailable,
		list:               console.NewList(),
		saving:             console.NewSavingStore(),
		width:              100,
	}
	m.create = console.NewCreateForm(m.queueRefresh)

	m.table = table.New(
		table.WithColumns(tableColumns(m.width)),
		table.WithFocused(true),
		table.WithHeight(console.PageSize+1),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.BorderStyle(lipgloss.NormalBorder()).BorderForeground(Comment).BorderBottom(true).Bold(true)
	ts.Selected = ts.Selected.Foreground(Background).Background(Purple)
	m.table.SetStyles(ts)

	m.search = textinput.New()
	m.search.Placeholder = "Search answers..."
	m.search.Prompt = "/ "

	m.question = newField("Question")
	m.answer = newField("Answer")

	m.paginator = paginator.New()
	m.paginator.Type = paginator.Dots
	m.paginator.PerPage = console.PageSize
	m.paginator.ActiveDot = lipgloss.NewStyle().Foreground(Purple).Render("•")
	m.paginator.InactiveDot = lipgloss.NewStyle().Foreground(Comment).Render("•")

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = lipgloss.NewStyle().Foreground(Purple)

	return m
}

func newField(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.Prompt = "┃ "
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.SetHeight(4)
	ta.SetWidth(80)
	return ta
}

func tableColumns(width int) []table.Column {
	text := (width - 6 - 10 - 17 - 8) / 2
	if text < 10 {
		text = 10
	}
	return []table.Column{
		{Title: "#", Width: 6},
		{Title: "Question", Width: text},
		{Title: "Answer", Width: text},
		{Title: "Status", Width: 10},
		{Title: "Uploaded", Width: 17},
	}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func status(doc models.QADocument, saving console.SavingState) string {
	switch {
	case saving == console.SavingInProgress:
		return "saving"
	case doc.Enabled:
		return "enabled"
	}
	return "disabled"
}

// tableRows formats the loaded page for the table.
func tableRows(docs []models.QADocument, store *console.SavingStore, textWidth int) (rows []table.Row) {
	for _, doc := range docs {
		rows = append(rows, table.Row{
			"#" + doc.Position.String(),
			truncate(doc.Question, textWidth),
			truncate(doc.Answer, textWidth),
			status(doc, store.Get(doc.ID)),
			time.Unix(doc.CreatedAt, 0).Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func (m *consoleModel) queueRefresh() {
	m.pending = append(m.pending, m.list.Refresh())
}

func (m *consoleModel) fetch(f console.Fetch) tea.Cmd {
	return func() tea.Msg {
		return listResultMsg(f.Do(m.ctx, m.api))
	}
}

func (m *consoleModel) flush() tea.Cmd {
	var cmds []tea.Cmd
	for _, f := range m.pending {
		cmds = append(cmds, m.fetch(f))
	}
	m.pending = nil
	return tea.Batch(cmds...)
}

func (m *consoleModel) syncTable() {
	cols := tableColumns(m.width)
	m.table.SetColumns(cols)
	m.table.SetRows(tableRows(m.list.Rows(), m.saving, cols[1].Width))
	m.paginator.SetTotalPages(m.list.Total())
	m.paginator.Page = m.list.Page() - 1
}

func (m *consoleModel) setNotice(n console.Notice) {
	m.notice = &n
}

func (m *consoleModel) selected() (doc models.QADocument, ok bool) {
	rows := m.list.Rows()
	i := m.table.Cursor()
	if i < 0 || i >= len(rows) {
		return doc, false
	}
	return rows[i], true
}

func (m *consoleModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(m.list.Mount()))
}

func (m *consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.question.SetWidth(msg.Width - 6)
		m.answer.SetWidth(msg.Width - 6)
		m.syncTable()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case listResultMsg:
		if !m.list.Resolve(console.ListResult(msg)) {
			return m, nil
		}
		if f, ok := m.list.Clamp(); ok {
			return m, m.fetch(f)
		}
		m.syncTable()
		return m, nil
	case settleMsg:
		if f, ok := m.list.Settle(msg.seq); ok {
			return m, m.fetch(f)
		}
		return m, nil
	case createdMsg:
		m.setNotice(m.create.Finish(msg.err))
		if !m.create.IsOpen() {
			m.focus = focusTable
		}
		return m, m.flush()
	case updatedMsg:
		if m.detail != nil {
			m.setNotice(m.detail.Finish(msg.doc, msg.err))
			m.detail = nil
		}
		m.focus = focusTable
		m.syncTable()
		return m, m.flush()
	case deletedMsg:
		m.setNotice(msg.action.Finish(msg.err))
		if m.action == msg.action {
			m.action = nil
		}
		return m, m.flush()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.focus {
		case focusSearch:
			return m.updateSearch(msg)
		case focusCreate:
			return m.updateCreate(msg)
		case focusDetail:
			return m.updateDetail(msg)
		case focusConfirm:
			return m.updateConfirm(msg)
		}
		return m.updateTable(msg)
	}
	return m, nil
}

func (m *consoleModel) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.focus = focusSearch
		m.table.Blur()
		return m, m.search.Focus()
	case "n":
		if !m.embeddingAvailable {
			m.setNotice(console.ValidationNotice(console.ErrNotOperable))
			return m, nil
		}
		m.create.Open()
		m.question.Reset()
		m.answer.Reset()
		m.focus = focusCreate
		m.activeField = 0
		m.answer.Blur()
		return m, m.question.Focus()
	case "enter":
		doc, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.detail = console.NewDetail(doc, m.embeddingAvailable, m.saving, m.queueRefresh)
		m.focus = focusDetail
		return m, nil
	case "d":
		if m.action != nil && m.action.Deleting() {
			m.setNotice(console.ValidationNotice(console.ErrInFlight))
			return m, nil
		}
		doc, ok := m.selected()
		if !ok {
			return m, nil
		}
		action := console.NewRowAction(doc, m.embeddingAvailable, func(string) { m.queueRefresh() })
		if err := action.Request(); err != nil {
			m.setNotice(console.ValidationNotice(err))
			return m, nil
		}
		m.action = action
		m.focus = focusConfirm
		return m, nil
	case "s":
		m.list.ToggleSort()
		m.syncTable()
		return m, nil
	case "]":
		if f, ok := m.list.NextPage(); ok {
			return m, m.fetch(f)
		}
		return m, nil
	case "[":
		if f, ok := m.list.PrevPage(); ok {
			return m, m.fetch(f)
		}
		return m, nil
	case "r":
		return m, m.fetch(m.list.Refresh())
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *consoleModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "tab":
		m.search.Blur()
		m.table.Focus()
		m.focus = focusTable
		return m, nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	seq := m.list.Type(m.search.Value())
	return m, tea.Batch(cmd, tea.Tick(console.SearchDebounce, func(time.Time) tea.Msg {
		return settleMsg{seq: seq}
	}))
}

func (m *consoleModel) switchField() tea.Cmd {
	m.activeField = 1 - m.activeField
	if m.activeField == 0 {
		m.answer.Blur()
		return m.question.Focus()
	}
	m.question.Blur()
	return m.answer.Focus()
}

func (m *consoleModel) updateField(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	if m.activeField == 0 {
		m.question, cmd = m.question.Update(msg)
	} else {
		m.answer, cmd = m.answer.Update(msg)
	}
	return cmd
}

func (m *consoleModel) updateCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.create.Saving() {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.create.Cancel()
		m.focus = focusTable
		m.table.Focus()
		return m, nil
	case "tab":
		return m, m.switchField()
	case "ctrl+s":
		m.create.Question = m.question.Value()
		m.create.Answer = m.answer.Value()
		upd, err := m.create.Begin()
		if err != nil {
			m.setNotice(console.ValidationNotice(err))
			return m, nil
		}
		return m, func() tea.Msg {
			_, err := m.api.Create(m.ctx, upd)
			return createdMsg{err: err}
		}
	}
	return m, m.updateField(msg)
}

func (m *consoleModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.detail
	if d == nil || d.Saving() {
		return m, nil
	}
	if d.Mode() == console.DetailViewing {
		switch msg.String() {
		case "esc", "q":
			d.Cancel()
			m.detail = nil
			m.focus = focusTable
			return m, nil
		case "e":
			if !d.Edit() {
				return m, nil
			}
			m.question.SetValue(d.Question)
			m.answer.SetValue(d.Answer)
			m.activeField = 0
			m.answer.Blur()
			return m, m.question.Focus()
		}
		return m, nil
	}
	switch msg.String() {
	case "esc":
		d.Cancel()
		return m, nil
	case "tab":
		return m, m.switchField()
	case "ctrl+s":
		d.Question = m.question.Value()
		d.Answer = m.answer.Value()
		id, upd, err := d.Begin()
		if err != nil {
			m.setNotice(console.ValidationNotice(err))
			return m, nil
		}
		m.syncTable()
		return m, func() tea.Msg {
			resp, err := m.api.Update(m.ctx, id, upd)
			return updatedMsg{doc: resp.Data, err: err}
		}
	}
	return m, m.updateField(msg)
}

func (m *consoleModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := m.action
	if a == nil {
		m.focus = focusTable
		return m, nil
	}
	switch msg.String() {
	case "y":
		id, err := a.Confirm()
		m.focus = focusTable
		if err != nil {
			m.setNotice(console.ValidationNotice(err))
			return m, nil
		}
		return m, func() tea.Msg {
			return deletedMsg{action: a, err: m.api.Delete(m.ctx, id)}
		}
	case "n", "esc":
		a.Dismiss()
		m.action = nil
		m.focus = focusTable
	}
	return m, nil
}

func (m *consoleModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("QA documents · " + m.container))
	sb.WriteString("\n\n")
	sb.WriteString(m.search.View())
	sb.WriteString("\n\n")

	switch m.list.State() {
	case console.ListIdleEmpty, console.ListLoading:
		sb.WriteString(m.spinner.View() + " Loading...")
		if err := m.list.Err(); err != nil {
			sb.WriteString(noticeKindToStyle[console.NoticeFailure].Render(fmt.Sprintf(" failed to load: %v (r to retry)", err)))
		}
		sb.WriteString("\n")
	case console.ListLoadedEmpty:
		sb.WriteString(emptyStyle.Render("No documents"))
		sb.WriteString("\n")
	case console.ListLoadedNonEmpty:
		sb.WriteString(m.table.View())
		sb.WriteString("\n")
		if m.list.ShowPaginator() {
			sb.WriteString(fmt.Sprintf("%s  page %d of %d\n", m.paginator.View(), m.list.Page(), m.list.Pages()))
		}
	}

	switch m.focus {
	case focusCreate:
		sb.WriteString(m.formView("New QA document", m.create.Saving()))
	case focusDetail:
		sb.WriteString(m.detailView())
	case focusConfirm:
		if m.action != nil {
			doc := m.action.Document()
			sb.WriteString(modalStyle.Render(fmt.Sprintf("Delete %s %q? (y/n)", tagStyle.Render("#"+doc.Position.Tag()), truncate(doc.Question, 40))))
			sb.WriteString("\n")
		}
	}

	if m.notice != nil {
		sb.WriteString(noticeKindToStyle[m.notice.Kind].Render(m.notice.Message))
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render(m.help()))
	return sb.String()
}

func (m *consoleModel) formView(title string, saving bool) string {
	var sb strings.Builder
	sb.WriteString(labelStyle.Render(title))
	if saving {
		sb.WriteString(" " + m.spinner.View() + " saving")
	}
	sb.WriteString("\n")
	sb.WriteString(m.question.View())
	sb.WriteString("\n")
	sb.WriteString(m.answer.View())
	return modalStyle.Render(sb.String()) + "\n"
}

func (m *consoleModel) detailView() string {
	d := m.detail
	if d == nil {
		return ""
	}
	doc := d.Document()
	if d.Mode() == console.DetailEditing {
		return m.formView("Edit "+tagStyle.Render("#"+doc.Position.Tag()), d.Saving())
	}
	width := m.width - 8
	if width < 20 {
		width = 20
	}
	var sb strings.Builder
	sb.WriteString(tagStyle.Render("#" + doc.Position.Tag()))
	sb.WriteString(" ")
	sb.WriteString(helpStyle.Render(status(doc, m.saving.Get(doc.ID))))
	if doc.Error != "" {
		sb.WriteString(" ")
		sb.WriteString(noticeKindToStyle[console.NoticeFailure].Render(doc.Error))
	}
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("Question"))
	sb.WriteString("\n")
	sb.WriteString(wordwrap.String(d.Question, width))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render("Answer"))
	sb.WriteString("\n")
	sb.WriteString(wordwrap.String(d.Answer, width))
	return modalStyle.Render(sb.String()) + "\n"
}

func (m *consoleModel) help() string {
	switch m.focus {
	case focusSearch:
		return "type to search · enter/esc done"
	case focusCreate:
		return "tab switch field · ctrl+s save · esc cancel"
	case focusDetail:
		if m.detail != nil && m.detail.Mode() == console.DetailEditing {
			return "tab switch field · ctrl+s save · esc cancel"
		}
		if m.detail != nil && m.detail.CanEdit() {
			return "e edit · esc close"
		}
		return "esc close"
	case focusConfirm:
		return "y delete · n cancel"
	}
	h := "/ search · enter open · s sort · [ ] page · r refresh · q quit"
	if m.embeddingAvailable {
		h = "/ search · n new · enter open · d delete · s sort · [ ] page · r refresh · q quit"
	}
	return h
}
