// Package application implements the interactive inventory session.
package application

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/JonMunkholm/inventory/internal/handler"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the Bubble Tea model for the session. It runs at most one
// command at a time and ignores input until that command reports back.
type Model struct {
	svc       handler.Service
	storeInfo string

	menu   *Menu
	cursor int

	flow    *flow
	step    int
	input   string
	problem string

	pending  bool
	status   string
	errText  string
	detail   []string
	quitting bool
}

// NewModel creates the session over svc. storeInfo describes the open store
// for the Info menu.
func NewModel(svc handler.Service, storeInfo string) *Model {
	m := &Model{svc: svc, storeInfo: storeInfo}
	m.menu = buildMenuTree(m)
	return m
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.pending {
			return m, nil
		}
		if m.flow != nil {
			return m, m.updatePrompt(msg)
		}
		return m, m.updateMenu(msg)

	case handler.ProductMsg:
		m.finish()
		m.detail = productLines(msg.Product)

	case handler.ProductsMsg:
		m.finish()
		m.detail = listLines(msg.Products)

	case handler.DoneMsg:
		m.finish()
		m.status = string(msg)

	case handler.WdMsg:
		m.finish()
		m.status = string(msg)

	case handler.ErrMsg:
		m.pending = false
		if m.flow != nil && m.flow.retry != nil {
			if problem, ok := m.flow.retry(msg.Err); ok {
				m.problem = problem
				m.input = ""
				return m, nil
			}
		}
		m.finish()
		m.errText = core.FormatUserError(msg.Err)
	}

	return m, nil
}

func (m *Model) updateMenu(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		m.quitting = true
		return tea.Quit
	case "esc":
		if m.menu.Parent == nil {
			m.quitting = true
			return tea.Quit
		}
		m.enter(m.menu.Parent)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.menu.Items)-1 {
			m.cursor++
		}
	case "enter":
		item := m.menu.Items[m.cursor]
		switch {
		case item.Submenu != nil:
			m.enter(item.Submenu)
		case item.Label == "Back" && m.menu.Parent != nil:
			m.enter(m.menu.Parent)
		case item.Action != nil:
			m.clearOutput()
			return item.Action()
		}
	}
	return nil
}

func (m *Model) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.finish()
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.input += string(msg.Runes)
	case tea.KeyEnter:
		cmd, problem := m.flow.accept(m.step, strings.TrimSpace(m.input))
		m.input = ""
		m.problem = problem
		switch {
		case problem != "":
		case cmd != nil:
			m.pending = true
			return cmd
		default:
			m.step++
		}
	}
	return nil
}

func (m *Model) enter(menu *Menu) {
	m.menu = menu
	m.cursor = 0
	m.clearOutput()
}

// startFlow switches from the menu to the first prompt of f.
func (m *Model) startFlow(f *flow) tea.Cmd {
	m.flow = f
	m.step = 0
	m.input = ""
	m.problem = ""
	return nil
}

// run wraps a command so the model waits for its result.
func (m *Model) run(cmd func() tea.Cmd) func() tea.Cmd {
	return func() tea.Cmd {
		m.pending = true
		return cmd()
	}
}

// finish returns to the menu after a flow or command completes.
func (m *Model) finish() {
	m.pending = false
	m.flow = nil
	m.step = 0
	m.input = ""
	m.problem = ""
}

func (m *Model) clearOutput() {
	m.status = ""
	m.errText = ""
	m.detail = nil
}

func (m *Model) View() string {
	if m.quitting {
		return "Goodbye.\n"
	}

	var b strings.Builder
	if m.flow != nil {
		m.viewPrompt(&b)
	} else {
		m.viewMenu(&b)
	}

	if m.pending {
		b.WriteString("\nWorking...\n")
	}
	return b.String()
}

func (m *Model) viewMenu(b *strings.Builder) {
	fmt.Fprintf(b, "%s\n\n", m.menu.Title)
	for i, item := range m.menu.Items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		fmt.Fprintf(b, "%s%s\n", cursor, item.Label)
	}

	if len(m.detail) > 0 {
		b.WriteString("\n")
		for _, line := range m.detail {
			fmt.Fprintf(b, "%s\n", line)
		}
	}
	if m.status != "" {
		fmt.Fprintf(b, "\n%s\n", m.status)
	}
	if m.errText != "" {
		fmt.Fprintf(b, "\nError: %s\n", m.errText)
	}

	b.WriteString("\nup/down: move  enter: select  esc: back  q: quit\n")
}

func (m *Model) viewPrompt(b *strings.Builder) {
	fmt.Fprintf(b, "%s\n\n", m.flow.title)
	fmt.Fprintf(b, "%s: %s_\n", m.flow.steps[m.step], m.input)
	if m.problem != "" {
		fmt.Fprintf(b, "\n%s\n", m.problem)
	}
	b.WriteString("\nenter: submit  esc: cancel\n")
}

func productLines(p core.Product) []string {
	return []string{
		fmt.Sprintf("ID:       %d", p.ID),
		fmt.Sprintf("Name:     %s", p.Name),
		fmt.Sprintf("Price:    %s", core.DisplayPrice(p.Price)),
		fmt.Sprintf("Quantity: %d", p.Quantity),
		fmt.Sprintf("Updated:  %s", core.FormatTimestamp(p.UpdatedAt)),
	}
}

func listLines(products []core.Product) []string {
	if len(products) == 0 {
		return []string{"No products stored."}
	}

	lines := make([]string, 0, len(products)+1)
	lines = append(lines, fmt.Sprintf("%-6s %-30s %10s %8s", "ID", "Name", "Price", "Qty"))
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("%-6d %-30s %10s %8d", p.ID, p.Name, core.DisplayPrice(p.Price), p.Quantity))
	}
	return lines
}
