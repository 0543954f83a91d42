package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/texatlas/pkg/describe"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect <description>",
		Short: "Browse the frames of an atlas description",
		Long: `Browse the frames of an atlas description file (.json, .toml).

In a terminal the frames are shown in an interactive list; use ←/→ to filter
by layer. With --plain, or when stdout is not a terminal, a table of every
frame is printed instead.`,
		Example: `  texatlas inspect build/game.json
  texatlas inspect build/game.toml --plain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := describe.ReadFile(args[0])
			if err != nil {
				return err
			}
			if plain || !isTerminal(os.Stdout) {
				printDescription(doc)
				return nil
			}
			_, err = tea.NewProgram(NewFrameListModel(doc)).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print a table instead of the interactive view")
	return cmd
}

// printDescription prints a summary line followed by a table of all frames.
func printDescription(doc describe.Description) {
	printInfo("%s · %d×%d · %s frames on %s layers",
		StyleHighlight.Render(doc.File), doc.Size[0], doc.Size[1],
		StyleNumber.Render(strconv.Itoa(len(doc.Frames))),
		StyleNumber.Render(strconv.Itoa(layerCount(doc.Frames))))
	fmt.Println(renderFrameTable(doc.Frames, indexRange(len(doc.Frames)), -1))
}

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// layerCount returns one more than the highest layer index.
func layerCount(frames []describe.Entry) int {
	n := 0
	for _, f := range frames {
		if f.Layer+1 > n {
			n = f.Layer + 1
		}
	}
	return n
}

func indexRange(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// renderFrameTable renders the frames selected by idx. The row whose frame
// index equals cursor is highlighted; pass -1 to highlight nothing.
func renderFrameTable(frames []describe.Entry, idx []int, cursor int) string {
	rows := make([][]string, 0, len(idx))
	for _, i := range idx {
		f := frames[i]
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		rows = append(rows, []string{
			marker,
			strconv.Itoa(i),
			strconv.Itoa(f.Layer),
			fmt.Sprintf("%d,%d", f.X, f.Y),
			fmt.Sprintf("%d×%d", f.Width, f.Height),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Frame", "Layer", "Offset", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < len(idx) && idx[row] == cursor {
				return listSelectedStyle
			}
			if col == 2 {
				return listDimStyle
			}
			return listNormalStyle
		})
	return t.Render()
}

// =============================================================================
// FrameListModel - Interactive frame browser
// =============================================================================

// FrameListModel is the bubbletea model for browsing a description.
type FrameListModel struct {
	Doc    describe.Description
	Layer  int // -1 shows every layer
	Cursor int // index into the filtered view
	Height int
	Offset int
}

// NewFrameListModel creates a frame browser showing every layer.
func NewFrameListModel(doc describe.Description) FrameListModel {
	return FrameListModel{
		Doc:    doc,
		Layer:  -1,
		Height: 15,
	}
}

// visible returns the frame indices shown under the current layer filter.
func (m FrameListModel) visible() []int {
	var idx []int
	for i, f := range m.Doc.Frames {
		if m.Layer < 0 || f.Layer == m.Layer {
			idx = append(idx, i)
		}
	}
	return idx
}

func (m FrameListModel) Init() tea.Cmd {
	return nil
}

func (m FrameListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.visible())
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < n-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "right", "l":
			if m.Layer < layerCount(m.Doc.Frames)-1 {
				m.Layer++
				m.Cursor, m.Offset = 0, 0
			}
		case "left", "h":
			if m.Layer > -1 {
				m.Layer--
				m.Cursor, m.Offset = 0, 0
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		// Keep the cursor row inside the shrunken window.
		m.Offset = max(m.Offset, m.Cursor-m.Height+1)
	}
	return m, nil
}

func (m FrameListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Doc.File))
	b.WriteString(" ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d×%d", m.Doc.Size[0], m.Doc.Size[1])))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ←/→ layer  q quit"))
	b.WriteString("\n\n")

	vis := m.visible()
	end := m.Offset + m.Height
	if end > len(vis) {
		end = len(vis)
	}
	cursor := -1
	if m.Cursor < len(vis) {
		cursor = vis[m.Cursor]
	}
	b.WriteString(renderFrameTable(m.Doc.Frames, vis[m.Offset:end], cursor))
	b.WriteString("\n\n")

	layer := "all layers"
	if m.Layer >= 0 {
		layer = fmt.Sprintf("layer %d", m.Layer)
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %s", min(m.Cursor+1, len(vis)), len(vis), layer)))

	return b.String()
}
