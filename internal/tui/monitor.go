package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/halvard/vault-core/internal/models"
)

// StateUpdate refreshes the ledger summary shown in the header.
type StateUpdate struct {
	AggregateValue uint64
	AggregateCap   uint64
	WithdrawalCap  uint64
	NativePrice    uint64
	PriceErr       error
	Paused         bool
	Assets         []models.AssetInfo
}

// StepUpdate reports scenario progress.
type StepUpdate struct {
	Index int
	Total int
	Name  string
	Err   error
	Ok    bool
}

// LogMessage appends a line to the log panel.
type LogMessage struct {
	Message string
}

// ScenarioDone marks the end of the scripted run.
type ScenarioDone struct {
	Err error
}

type Model struct {
	state      StateUpdate
	step       StepUpdate
	done       bool
	doneErr    error
	logs       []string
	spinner    spinner.Model
	progress   progress.Model
	width      int
	height     int
	quit       bool
	okCount    int
	errorCount int
}

func NewModel() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	pr := progress.New(progress.WithDefaultGradient())

	return Model{
		logs:     []string{},
		spinner:  sp,
		progress: pr,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.handleKeyMsg(msg) {
			m.quit = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m = m.handleWindowSizeMsg(msg)

	case StateUpdate:
		m.state = msg

	case StepUpdate:
		m = m.handleStepUpdate(msg)

	case LogMessage:
		m = m.handleLogMessage(msg)

	case ScenarioDone:
		m.done = true
		m.doneErr = msg.Err

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		if progressModel, ok := progressModel.(progress.Model); ok {
			m.progress = progressModel
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "ctrl+c":
		return true
	}
	return false
}

func (m Model) handleWindowSizeMsg(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.progress.Width = msg.Width - 40
	return m
}

func (m Model) handleStepUpdate(msg StepUpdate) Model {
	m.step = msg
	if msg.Ok {
		m.okCount++
	} else {
		m.errorCount++
	}
	return m
}

func (m Model) handleLogMessage(msg LogMessage) Model {
	m.logs = append(m.logs, fmt.Sprintf("[%s] %s",
		time.Now().Format("15:04:05"), msg.Message))
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
	return m
}

func (m Model) View() string {
	if m.quit {
		return "Shutting down...\n"
	}

	var s strings.Builder

	// Header
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginBottom(1)

	s.WriteString(headerStyle.Render("🏦 Vault Core Monitor"))
	s.WriteString("\n\n")

	// Summary
	summaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	price := "n/a"
	if m.state.PriceErr == nil && m.state.NativePrice > 0 {
		price = formatPrice(m.state.NativePrice)
	}
	halted := "running"
	if m.state.Paused {
		halted = "⛔ HALTED"
	}

	summary := fmt.Sprintf("Aggregate: %s / %s | Per-withdrawal cap: %s | Native: %s | %s",
		FormatUSD(m.state.AggregateValue),
		FormatUSD(m.state.AggregateCap),
		FormatUSD(m.state.WithdrawalCap),
		price,
		halted)
	s.WriteString(summaryStyle.Render(summary))
	s.WriteString("\n\n")

	// Scenario progress
	stepSectionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1).
		Width(m.width - 2)

	var stepSection strings.Builder
	stepSection.WriteString("🎬 Scenario\n")
	stepSection.WriteString(strings.Repeat("─", 60) + "\n")

	if m.step.Total > 0 {
		icon := "✅"
		if !m.step.Ok {
			icon = "❌"
		}
		if !m.done {
			icon = m.spinner.View()
		}
		stepSection.WriteString(fmt.Sprintf("%s Step %d/%d: %s\n",
			icon, m.step.Index, m.step.Total, m.step.Name))
		stepSection.WriteString(m.progress.ViewAs(float64(m.step.Index)/float64(m.step.Total)) + "\n")
	} else {
		stepSection.WriteString("Waiting for scenario to start...\n")
	}

	if m.done {
		if m.doneErr != nil {
			errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
			stepSection.WriteString(errorStyle.Render(fmt.Sprintf("Scenario failed: %v", m.doneErr)) + "\n")
		} else {
			doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
			stepSection.WriteString(doneStyle.Render(fmt.Sprintf("Scenario complete: %d ok, %d failed", m.okCount, m.errorCount)) + "\n")
		}
	}

	s.WriteString(stepSectionStyle.Render(stepSection.String()))
	s.WriteString("\n\n")

	// Asset table
	assetSectionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1).
		Width(m.width - 2)

	var assetSection strings.Builder
	assetSection.WriteString("💰 Registered Assets\n")
	assetSection.WriteString(strings.Repeat("─", 60) + "\n")

	for _, info := range m.state.Assets {
		icon := "🟢"
		if info.Status == models.AssetPaused {
			icon = "⏸"
		}
		line := fmt.Sprintf("%s %-10s dec=%-2d value=%-14s deposits=%-4d withdrawals=%-4d",
			icon,
			truncate(string(info.ID), 10),
			info.Decimals,
			FormatUSD(info.CumulativeValue),
			info.DepositCount,
			info.WithdrawalCount)

		color := "39"
		if info.Status == models.AssetPaused {
			color = "244"
		}
		lineStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		assetSection.WriteString(lineStyle.Render(line) + "\n")
	}

	s.WriteString(assetSectionStyle.Render(assetSection.String()))
	s.WriteString("\n\n")

	// Logs section
	logSectionStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(m.width - 2).
		Height(8)

	var logSection strings.Builder
	logSection.WriteString("📝 Recent Logs\n")
	for _, log := range m.logs {
		logSection.WriteString(log + "\n")
	}

	s.WriteString(logSectionStyle.Render(logSection.String()))
	s.WriteString("\n\n")

	// Footer
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	footer := "Press 'q' to quit | Logs: logs/vault-core_*.log"
	s.WriteString(footerStyle.Render(footer))

	return s.String()
}

// FormatUSD renders a 6-decimal normalized value as dollars and cents.
func FormatUSD(value uint64) string {
	return fmt.Sprintf("$%d.%02d", value/1_000_000, (value%1_000_000)/10_000)
}

// formatPrice renders an 8-decimal price as dollars and cents.
func formatPrice(price uint64) string {
	return fmt.Sprintf("$%d.%02d", price/100_000_000, (price%100_000_000)/1_000_000)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
