package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sorenwolf/klartext/internal/alphabet"
	"github.com/sorenwolf/klartext/internal/analysis"
	"github.com/sorenwolf/klartext/internal/cipher"
	"github.com/sorenwolf/klartext/internal/lang"
	"github.com/sorenwolf/klartext/internal/model"
	"github.com/sorenwolf/klartext/internal/store"
)

type opMode int

const (
	modeEncrypt opMode = iota
	modeDecrypt
	modeBreak
)

type paneTab int

const (
	tabWork paneTab = iota
	tabHistory
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	paneStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A")).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
)

type breakDoneMsg struct {
	result analysis.Result
	err    error
}

// Model implements the Bubble Tea cipher workbench.
type Model struct {
	cfg     model.Config
	st      *store.Store
	profile lang.Profile
	alpha   alphabet.Alphabet
	input   string

	keyInput textinput.Model
	output   viewport.Model
	history  table.Model

	activeTab  paneTab
	mode       opMode
	cipherName string
	prettify   bool

	running   bool
	cancelRun context.CancelFunc

	lastResult *analysis.Result
	lastOutput string
	status     string

	width  int
	height int
	ready  bool
}

// NewModel constructs the workbench over a fixed input text. The
// store may be nil, in which case nothing is recorded.
func NewModel(cfg model.Config, st *store.Store, profile lang.Profile, alpha alphabet.Alphabet, input string) *Model {
	keyInput := textinput.New()
	keyInput.Placeholder = "key (number or word)"
	keyInput.CharLimit = 64

	historyTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Time", Width: 19},
			{Title: "Op", Width: 7},
			{Title: "Cipher", Width: 8},
			{Title: "Key", Width: 16},
			{Title: "Distance", Width: 12},
			{Title: "Input", Width: 6},
		}),
		table.WithHeight(10),
	)

	return &Model{
		cfg:        cfg,
		st:         st,
		profile:    profile,
		alpha:      alpha,
		input:      input,
		keyInput:   keyInput,
		history:    historyTable,
		cipherName: cfg.Cipher,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case breakDoneMsg:
		m.running = false
		if m.cancelRun != nil {
			m.cancelRun()
			m.cancelRun = nil
		}
		if msg.err != nil {
			if errors.Is(msg.err, context.Canceled) {
				m.status = "break cancelled"
			} else {
				m.status = errorStyle.Render(fmt.Sprintf("break failed: %v", msg.err))
			}
			return m, nil
		}
		result := msg.result
		m.lastResult = &result
		m.setOutput(result.Plaintext)
		m.status = fmt.Sprintf("recovered key %q, distance %.2f", result.Key, result.Distance)
		if result.LowConfidence {
			m.status += "  " + lowStyle.Render("LOW CONFIDENCE")
		}
		m.record(model.OpBreak, result.Key, &result.Distance, result.LowConfidence)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.activeTab == tabHistory {
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.output, cmd = m.output.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.cancelRunning()
		return m, tea.Quit
	}

	if m.keyInput.Focused() {
		switch msg.Type {
		case tea.KeyEnter:
			m.keyInput.Blur()
			return m, m.run()
		case tea.KeyEsc:
			m.keyInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.keyInput, cmd = m.keyInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		m.cancelRunning()
		return m, tea.Quit
	case "esc":
		if m.running {
			m.cancelRunning()
			m.status = "break cancelled"
		}
		return m, nil
	case "tab":
		if m.activeTab == tabWork {
			m.activeTab = tabHistory
			m.loadHistory()
		} else {
			m.activeTab = tabWork
		}
		return m, nil
	case "c":
		if m.cipherName == analysis.CipherCaesar {
			m.cipherName = analysis.CipherVigenere
		} else {
			m.cipherName = analysis.CipherCaesar
		}
		return m, nil
	case "m":
		m.mode = (m.mode + 1) % 3
		return m, nil
	case "k":
		m.keyInput.Focus()
		return m, textinput.Blink
	case "p":
		m.prettify = !m.prettify
		if m.lastOutput != "" {
			m.setOutput(m.lastOutput)
		}
		return m, nil
	case "enter":
		return m, m.run()
	}

	if m.activeTab == tabHistory {
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.output, cmd = m.output.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("klartext"))
	b.WriteString("  ")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	if m.activeTab == tabHistory {
		b.WriteString(paneStyle.Render(m.history.View()))
	} else {
		b.WriteString(m.workView())
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render(m.footer()))
	return b.String()
}

func (m *Model) statusLine() string {
	segments := []string{
		labelStyle.Render("cipher ") + valueStyle.Render(m.cipherName),
		labelStyle.Render("mode ") + valueStyle.Render(m.modeName()),
		labelStyle.Render("lang ") + valueStyle.Render(m.cfg.Lang),
	}
	return strings.Join(segments, "  ")
}

func (m *Model) workView() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Key: "))
	b.WriteString(m.keyInput.View())
	b.WriteString("\n")

	inputPreview := m.input
	if runes := []rune(inputPreview); len(runes) > 200 {
		inputPreview = string(runes[:200]) + "..."
	}
	paneWidth := m.paneWidth()
	b.WriteString(paneStyle.Render(labelStyle.Render("Input\n") + wrapToWidth(inputPreview, paneWidth)))
	b.WriteString("\n")
	b.WriteString(paneStyle.Render(labelStyle.Render("Output\n") + m.output.View()))
	b.WriteString("\n")
	if m.running {
		b.WriteString(valueStyle.Render("breaking... (esc to cancel)"))
	} else if m.status != "" {
		b.WriteString(m.status)
	}
	return b.String()
}

func (m *Model) footer() string {
	return "enter run  k key  c cipher  m mode  p prettify  tab history  q quit"
}

func (m *Model) modeName() string {
	switch m.mode {
	case modeDecrypt:
		return model.OpDecrypt
	case modeBreak:
		return model.OpBreak
	default:
		return model.OpEncrypt
	}
}

func (m *Model) resize() {
	paneWidth := m.paneWidth()
	paneHeight := (m.height - 12) / 2
	if paneHeight < 3 {
		paneHeight = 3
	}
	if !m.ready {
		m.output = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.output.Width = paneWidth
		m.output.Height = paneHeight
	}
	if m.lastOutput != "" {
		m.setOutput(m.lastOutput)
	}
	historyHeight := m.height - 8
	if historyHeight < 4 {
		historyHeight = 4
	}
	m.history.SetHeight(historyHeight)
}

func (m *Model) paneWidth() int {
	w := m.width - 6
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) setOutput(text string) {
	m.lastOutput = text
	display := text
	if m.prettify {
		display = Prettify(display)
	}
	m.output.SetContent(wrapToWidth(display, m.paneWidth()))
	m.output.GotoTop()
}

// run starts the selected operation. Transforms are immediate; breaks
// run in a command so the UI stays responsive and cancellable.
func (m *Model) run() tea.Cmd {
	if m.running {
		return nil
	}
	if m.mode == modeBreak {
		return m.runBreak()
	}
	m.runTransform()
	return nil
}

func (m *Model) runTransform() {
	key := strings.TrimSpace(m.keyInput.Value())
	var (
		out     string
		err     error
		wireKey string
	)
	switch m.cipherName {
	case analysis.CipherVigenere:
		wireKey = key
		if m.mode == modeEncrypt {
			out, err = cipher.VigenereEncrypt(m.input, key, m.alpha)
		} else {
			out, err = cipher.VigenereDecrypt(m.input, key, m.alpha)
		}
	default:
		var shift int
		shift, err = cipher.ParseCaesarKey(key, m.alpha)
		wireKey = strconv.Itoa(shift)
		if err == nil {
			if m.mode == modeEncrypt {
				out = cipher.CaesarEncrypt(m.input, shift, m.alpha)
			} else {
				out = cipher.CaesarDecrypt(m.input, shift, m.alpha)
			}
		}
	}
	if err != nil {
		m.status = errorStyle.Render(err.Error())
		return
	}
	m.lastResult = nil
	m.setOutput(out)
	m.status = fmt.Sprintf("%s done (%d runes)", m.modeName(), len([]rune(out)))
	m.record(m.modeName(), wireKey, nil, false)
}

func (m *Model) runBreak() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelRun = cancel
	m.running = true
	m.status = ""

	cipherName := m.cipherName
	input := m.input
	profile := m.profile
	alpha := m.alpha
	opts := analysis.Options{MaxKeyLen: m.cfg.MaxKeyLen, Workers: m.cfg.Workers}

	return func() tea.Msg {
		var (
			result analysis.Result
			err    error
		)
		if cipherName == analysis.CipherVigenere {
			result, err = analysis.BreakVigenere(ctx, input, profile, alpha, opts)
		} else {
			result, err = analysis.BreakCaesar(ctx, input, profile, alpha, opts)
		}
		return breakDoneMsg{result: result, err: err}
	}
}

func (m *Model) cancelRunning() {
	if m.cancelRun != nil {
		m.cancelRun()
		m.cancelRun = nil
	}
	m.running = false
}

func (m *Model) record(op, key string, distance *float64, low bool) {
	if m.st == nil {
		return
	}
	rec := model.HistoryRecord{
		At:            time.Now(),
		Op:            op,
		Cipher:        m.cipherName,
		Lang:          m.cfg.Lang,
		Key:           key,
		Distance:      distance,
		LowConfidence: low,
		InputLen:      len([]rune(m.input)),
	}
	if _, err := m.st.InsertRecord(context.Background(), rec); err != nil {
		logErrf("failed to record operation: %v\n", err)
	}
}

func (m *Model) loadHistory() {
	if m.st == nil {
		m.history.SetRows(nil)
		return
	}
	records, err := m.st.ListRecords(context.Background(), model.HistoryFilter{Last: 100})
	if err != nil {
		logErrf("failed to load history: %v\n", err)
		return
	}
	rows := make([]table.Row, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		distance := "-"
		if rec.Distance != nil {
			distance = fmt.Sprintf("%.2f", *rec.Distance)
			if rec.LowConfidence {
				distance += " (low)"
			}
		}
		rows = append(rows, table.Row{
			rec.At.Local().Format("2006-01-02 15:04:05"),
			rec.Op,
			rec.Cipher,
			rec.Key,
			distance,
			strconv.Itoa(rec.InputLen),
		})
	}
	m.history.SetRows(rows)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
