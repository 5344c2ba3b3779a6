package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"residue/internal/automaton"
)

var tableTarget int64

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	acceptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#101F38")).Background(lipgloss.Color("#8BC34A"))
	cellStyle   = lipgloss.NewStyle().Align(lipgloss.Right)
)

// tableCmd prints the transition table for a modulus
var tableCmd = &cobra.Command{
	Use:   "table D",
	Short: "Print the digit transition table for modulus D",
	Long: fmt.Sprintf(`Prints one row per carry c in [0, D) and one column per digit x, each cell
holding (10c + x) mod D. D may be at most %d.`, automaton.MaxTableModulus),
	Args: cobra.ExactArgs(1),
	RunE: runTable,
}

func runTable(cmd *cobra.Command, args []string) error {
	v, err := parseInts([]string{"modulus"}, args)
	if err != nil {
		return err
	}
	tbl, err := automaton.NewTable(v[0])
	if err != nil {
		return err
	}
	highlight := cmd.Flags().Changed("target")
	fmt.Fprint(cmd.OutOrStdout(), renderTable(tbl, tableTarget, highlight))
	return nil
}

// renderTable formats tbl. When highlight is set, the row whose carry accepts
// target is highlighted.
func renderTable(tbl *automaton.Table, target int64, highlight bool) string {
	width := len(strconv.FormatUint(tbl.Modulus()-1, 10)) + 1
	if width < 3 {
		width = 3
	}
	cell := cellStyle.Width(width)

	accept := acceptingCarry(tbl.Modulus(), target)

	var sb strings.Builder
	header := []string{cell.Render("c")}
	for x := 0; x <= 9; x++ {
		header = append(header, cell.Render(strconv.Itoa(x)))
	}
	sb.WriteString(headerStyle.Render(strings.Join(header, "")))
	sb.WriteByte('\n')

	for c := uint64(0); c < tbl.Modulus(); c++ {
		cells := []string{cell.Render(strconv.FormatUint(c, 10))}
		for _, next := range tbl.Row(c) {
			cells = append(cells, cell.Render(strconv.FormatUint(next, 10)))
		}
		row := strings.Join(cells, "")
		if highlight && c == accept {
			row = acceptStyle.Render(row)
		}
		sb.WriteString(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// acceptingCarry returns the carry that accepts target, reducing negative
// residues the same way automaton.Initial does.
func acceptingCarry(modulus uint64, target int64) uint64 {
	s, err := automaton.Initial(int64(modulus), target)
	if err != nil {
		return 0
	}
	return s.Residue()
}
