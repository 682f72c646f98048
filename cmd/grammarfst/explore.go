package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	grammarfst "github.com/aurelab/grammarfst"
	"github.com/aurelab/grammarfst/stitch"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	stateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	finalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Explore the stitched composite graph interactively",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runExplore(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
}

type exploreState int

const (
	stateBrowse exploreState = iota
	statePickPhone
)

type position struct {
	state grammarfst.CompositeState
	phone grammarfst.PhoneID
}

type exploreModel struct {
	eng      *stitch.Stitcher
	err      error
	pos      position
	history  []position
	arcs     []grammarfst.CompositeArc
	final    grammarfst.Weight
	selected int
	input    textinput.Model
	state    exploreState
}

func newExploreModel(eng *stitch.Stitcher) *exploreModel {
	m := &exploreModel{
		eng: eng,
		pos: position{state: eng.Start(), phone: eng.ContextSet().BOS()},
	}
	m.reload()
	return m
}

// reload recomputes the arc list and final cost for the current position.
func (m *exploreModel) reload() {
	m.selected = 0
	m.arcs, m.err = m.eng.Arcs(m.pos.state, m.pos.phone)
	if m.err != nil {
		return
	}
	m.final, m.err = m.eng.Final(m.pos.state)
}

func (m *exploreModel) Init() tea.Cmd {
	return nil
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == statePickPhone {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc":
				m.state = stateBrowse
				return m, nil
			case "enter":
				m.state = stateBrowse
				p, err := strconv.ParseInt(m.input.Value(), 10, 32)
				if err != nil || !m.eng.ContextSet().Contains(grammarfst.PhoneID(p)) {
					m.err = fmt.Errorf("phone %q is not in the left-context set", m.input.Value())
					return m, nil
				}
				m.pos.phone = grammarfst.PhoneID(p)
				m.reload()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.arcs)-1 {
				m.selected++
			}

		case "enter":
			if m.err != nil {
				m.err = nil
				break
			}
			if m.selected >= len(m.arcs) {
				break
			}
			arc := m.arcs[m.selected]
			m.history = append(m.history, m.pos)
			m.pos.state = arc.NextState
			if p := grammarfst.PhoneID(arc.ILabel); arc.ILabel != grammarfst.Epsilon && m.eng.ContextSet().Contains(p) {
				m.pos.phone = p
			}
			m.reload()

		case "esc", "backspace":
			if n := len(m.history); n > 0 {
				m.pos = m.history[n-1]
				m.history = m.history[:n-1]
				m.reload()
			}

		case "p":
			m.input = textinput.New()
			m.input.Prompt = "context phone: "
			m.input.Placeholder = strconv.Itoa(int(m.pos.phone))
			m.input.Width = 10
			m.input.Focus()
			m.state = statePickPhone
		}
	}

	return m, nil
}

func (m *exploreModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Grammar Explorer"))
	b.WriteString("\n\n")

	b.WriteString("State ")
	b.WriteString(stateStyle.Render(fmt.Sprintf("(%d, %d)", m.pos.state.Instance(), m.pos.state.Local())))
	b.WriteString(fmt.Sprintf("  context phone %d  depth %d", m.pos.phone, len(m.history)))
	if m.err == nil && grammarfst.IsFinal(m.final) {
		b.WriteString("  ")
		b.WriteString(finalStyle.Render(fmt.Sprintf("final=%g", m.final)))
	}
	b.WriteString("\n\n")

	if m.state == statePickPhone {
		phones := m.eng.ContextSet().Phones()
		parts := make([]string, len(phones))
		for i, p := range phones {
			parts[i] = strconv.Itoa(int(p))
		}
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("set: " + strings.Join(parts, " ")))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter apply • esc cancel"))
		return b.String()
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter dismiss • q quit"))
		return b.String()
	}

	if len(m.arcs) == 0 {
		b.WriteString("No outgoing arcs.\n")
	}
	for i, arc := range m.arcs {
		line := fmt.Sprintf("%s -> %s",
			labelStyle.Render(fmt.Sprintf("%d : %d / %g", arc.ILabel, arc.OLabel, arc.Weight)),
			stateStyle.Render(fmt.Sprintf("(%d, %d)", arc.NextState.Instance(), arc.NextState.Local())))
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> "))
			b.WriteString(line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	stats := m.eng.Stats()
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%d instances • %d expansions", stats.Instances, stats.Expansions)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter follow • esc back • p phone • q quit"))
	return b.String()
}

func runExplore(cmd *cobra.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("explore needs a terminal; use walk for scripted output")
	}
	eng, _, err := loadEngine(cmd)
	if err != nil {
		return err
	}
	p := tea.NewProgram(newExploreModel(eng), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
