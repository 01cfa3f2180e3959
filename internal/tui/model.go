// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/typeamp/typeamp/internal/model"
	"github.com/typeamp/typeamp/internal/session"
	"github.com/typeamp/typeamp/internal/store"
)

const tickInterval = 250 * time.Millisecond

type tickMsg struct {
	gen int
	at  time.Time
}

type preparedMsg struct{}

// Model implements the Bubble Tea practice UI around a typing session.
type Model struct {
	sess  *session.Session
	store *store.Store

	width  int
	height int

	preparing bool
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	failureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	resultTitleStyle = lipgloss.NewStyle().Bold(true)
)

// NewModel constructs a practice TUI model. The store may be nil, in which
// case finished sessions are not persisted.
func NewModel(sess *session.Session, st *store.Store) *Model {
	m := &Model{sess: sess, store: st}
	sess.OnFinish(func(rec model.SessionRecord, chars []model.CharStats) {
		if m.store == nil {
			return
		}
		if _, err := m.store.InsertSession(context.Background(), rec, chars); err != nil {
			logErrf("failed to save session: %v\n", err)
		}
	})
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.prepareCmd()
}

func (m *Model) prepareCmd() tea.Cmd {
	m.preparing = true
	sess := m.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		sess.PrepareGame(ctx)
		return preparedMsg{}
	}
}

func (m *Model) tickCmd() tea.Cmd {
	gen := m.sess.TimerGen()
	return tea.Tick(tickInterval, func(at time.Time) tea.Msg {
		return tickMsg{gen: gen, at: at}
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case preparedMsg:
		m.preparing = false
		if errMsg := m.sess.PreparationError(); errMsg != "" {
			logErrf("using fallback text: %s\n", errMsg)
		}
		return m, nil
	case tickMsg:
		// While a prepare command is rewriting the session, leftover
		// ticks from the previous game must not touch it.
		if m.preparing {
			return m, nil
		}
		m.sess.Tick(msg.gen, msg.at)
		if m.sess.Status() == model.StatusRunning && msg.gen == m.sess.TimerGen() {
			return m, m.tickCmd()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyTab:
		if m.preparing {
			return m, nil
		}
		return m.restart()
	case tea.KeyEnter:
		if !m.preparing && m.sess.Status() == model.StatusFinished {
			return m.restart()
		}
		return m, nil
	case tea.KeyEsc:
		if m.preparing {
			return m, nil
		}
		switch m.sess.Status() {
		case model.StatusRunning:
			m.sess.Pause()
		case model.StatusPaused:
			m.sess.Resume()
			return m, m.tickCmd()
		}
		return m, nil
	}
	if m.preparing {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		m.sess.HandleKey(session.BackspaceKey())
		return m, nil
	case tea.KeySpace:
		return m, m.typeRunes([]rune{' '})
	case tea.KeyRunes:
		return m, m.typeRunes(msg.Runes)
	default:
		return m, nil
	}
}

func (m *Model) restart() (tea.Model, tea.Cmd) {
	m.sess.Reset()
	return m, m.prepareCmd()
}

// typeRunes feeds keystrokes into the session and starts the countdown
// tick loop when the first keystroke transitioned the game to running.
func (m *Model) typeRunes(runes []rune) tea.Cmd {
	wasReady := m.sess.Status() == model.StatusReady
	for _, r := range runes {
		m.sess.HandleKey(session.RuneKey(r))
	}
	if wasReady && m.sess.Status() == model.StatusRunning {
		return m.tickCmd()
	}
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.preparing {
		return m.place(footerStyle.Render("Preparing text..."))
	}
	if m.sess.Status() == model.StatusFinished {
		return m.place(m.renderResults())
	}

	states := m.sess.CharStates()
	if len(states) == 0 {
		return ""
	}
	cursorIndex := -1
	for i, st := range states {
		if st.Status == model.CharCurrent {
			cursorIndex = i
			break
		}
	}
	styledRunes := buildStyledRunes(states, cursorIndex)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes)
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderFooter() string {
	cfg := m.sess.TestConfig()
	stats := m.sess.Stats()

	var segments []string
	switch cfg.Mode {
	case model.ModeTime:
		remaining := m.sess.Remaining(time.Now())
		if m.sess.Status() == model.StatusReady {
			remaining = time.Duration(cfg.Duration) * time.Second
		}
		segments = append(segments, formatCountdown(remaining))
	case model.ModeWords:
		p := m.sess.Progress()
		segments = append(segments, fmt.Sprintf("Words %d/%d", p.WordsCompleted, p.TargetWordCount))
	default:
		segments = append(segments, fmt.Sprintf("Quote %d%%", charProgress(m.sess.CharStates())))
	}
	segments = append(segments, fmt.Sprintf("%d WPM · %d%%", stats.WPM, stats.Accuracy))
	if cfg.Difficulty != model.DifficultyNormal {
		segments = append(segments, difficultyLabel(cfg.Difficulty))
	}
	if m.sess.Status() == model.StatusPaused {
		segments = append(segments, "Paused (esc to resume)")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func difficultyLabel(d model.Difficulty) string {
	s := string(d)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("Time %d:%02d", total/60, total%60)
}

// charProgress is the percentage of target characters already judged.
func charProgress(states []model.CharState) int {
	if len(states) == 0 {
		return 0
	}
	typed := 0
	for _, st := range states {
		if st.Status == model.CharCorrect || st.Status == model.CharIncorrect {
			typed++
		}
	}
	return typed * 100 / len(states)
}

func (m *Model) renderResults() string {
	stats := m.sess.Stats()
	failure := m.sess.Failure()

	lines := []string{resultTitleStyle.Render("Session complete")}
	if failure.Failed {
		lines[0] = failureStyle.Render("Test failed")
		lines = append(lines, failure.Reason)
	}
	lines = append(lines,
		fmt.Sprintf("WPM       %d", stats.WPM),
		fmt.Sprintf("Accuracy  %d%%", stats.Accuracy),
		fmt.Sprintf("Chars     %d/%d correct", stats.CorrectChars, stats.TotalChars),
		fmt.Sprintf("Elapsed   %s", stats.Elapsed.Round(time.Second)),
		"",
		footerStyle.Render("tab restart · ctrl+c quit"),
	)
	return strings.Join(lines, "\n")
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
