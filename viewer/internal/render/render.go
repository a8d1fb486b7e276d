package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/obsidianstack/graphcast/pkg/graph"
)

// CardWidth is the inner width of every node card, borders excluded.
const CardWidth = 40

const cardGap = 2

var (
	cardStyle = lipgloss.NewStyle().
			Width(CardWidth).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	contentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	handleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	edgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	emptyStyle = lipgloss.NewStyle().
			Faint(true)
)

// Card renders one node with its target handle on the left and its source
// handle on the right. Every line of the result has the same width.
func Card(n graph.Node) string {
	title := n.Data.Title
	if title == "" {
		title = n.ID
	}
	body := titleStyle.Render(title)
	if n.Data.Content != "" {
		body += "\n" + contentStyle.Render(n.Data.Content)
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		handleStyle.Render(graph.TargetHandle+"▸"),
		cardStyle.Render(body),
		handleStyle.Render("▸"+graph.SourceHandle),
	)
}

// Graph renders nodes in rows, one row per distinct y position ordered by x,
// wrapping a row when it would exceed width. A width of zero or less never
// wraps. Edges are listed underneath.
func Graph(nodes []graph.Node, edges []graph.Edge, width int) string {
	if len(nodes) == 0 {
		out := emptyStyle.Render("waiting for graph...")
		if len(edges) > 0 {
			out += "\n\n" + Edges(edges)
		}
		return out
	}

	var rows []string
	for _, row := range layout(nodes, width) {
		cards := make([]string, 0, 2*len(row))
		for i, n := range row {
			if i > 0 {
				cards = append(cards, strings.Repeat(" ", cardGap))
			}
			cards = append(cards, Card(n))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	out := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if len(edges) > 0 {
		out += "\n\n" + Edges(edges)
	}
	return out
}

// Edges lists edges one per line as "id  source:handle → target:handle".
func Edges(edges []graph.Edge) string {
	lines := make([]string, 0, len(edges))
	for _, e := range edges {
		line := fmt.Sprintf("%s  %s → %s", e.ID, endpoint(e.Source, e.SourceHandle), endpoint(e.Target, e.TargetHandle))
		if e.Label != "" {
			line += "  (" + e.Label + ")"
		}
		lines = append(lines, edgeStyle.Render(line))
	}
	return strings.Join(lines, "\n")
}

func endpoint(id, handle string) string {
	if handle == "" {
		return id
	}
	return id + ":" + handle
}

// layout groups nodes into display rows. Input order breaks ties.
func layout(nodes []graph.Node, width int) [][]graph.Node {
	sorted := make([]graph.Node, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Position, sorted[j].Position
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	perRow := 0
	if width > 0 {
		perRow = max(1, (width+cardGap)/(cardOuterWidth()+cardGap))
	}

	var rows [][]graph.Node
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j].Position.Y == sorted[i].Position.Y {
			j++
		}
		group := sorted[i:j]
		for perRow > 0 && len(group) > perRow {
			rows = append(rows, group[:perRow])
			group = group[perRow:]
		}
		rows = append(rows, group)
		i = j
	}
	return rows
}

func cardOuterWidth() int {
	return lipgloss.Width(Card(graph.Node{}))
}
