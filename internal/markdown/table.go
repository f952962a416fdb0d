package markdown

import (
	"context"
	"strings"

	"github.com/Sharknia/nolog/internal/core/domain"
)

// table renders the rows beneath a table block. A header separator with one
// "---" per cell follows the first row.
func (s *session) table(ctx context.Context, t domain.Table) (string, error) {
	var b strings.Builder
	rows := 0

	err := s.eachChild(ctx, t.ID, func(n domain.Node) error {
		row, ok := n.(domain.TableRow)
		if !ok {
			s.logger.Warn("non-row child of table skipped", "block_id", n.NodeID())
			return nil
		}

		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = s.formatter.FormatCell(ctx, c)
		}
		b.WriteString(tableLine(cells))

		if rows == 0 {
			sep := make([]string, len(row.Cells))
			for i := range sep {
				sep[i] = "---"
			}
			b.WriteString(tableLine(sep))
		}
		rows++
		return nil
	})
	if err != nil {
		return "", err
	}
	if rows == 0 {
		return "", nil
	}

	b.WriteString("\n")
	return b.String(), nil
}

func tableLine(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |\n"
}
