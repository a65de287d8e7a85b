package ui

import (
	"fmt"
	"strings"

	"todos/internal/controller"
	"todos/internal/output"
)

const footer = "j/k move  space toggle  d delete  a add  1/2/3 filter  c clear  r reload  q quit"

func (m *model) View() string {
	st := m.ctl.Snapshot()

	var b strings.Builder
	writeTitle(&b, st)
	b.WriteString(output.FormatFilterBar(st.Filter) + "\n\n")

	if m.adding {
		b.WriteString(m.input.View() + "\n\n")
	}
	if st.Loading {
		b.WriteString("Loading...\n\n")
	}
	if st.Err != "" {
		b.WriteString("! " + st.Err + "\n\n")
	}

	if st.Empty() && !st.Loading {
		output.FormatEmpty(&b)
	} else {
		for i, todo := range st.Filtered {
			cursor := "  "
			if i == m.cursor && !m.adding {
				cursor = "> "
			}
			fmt.Fprintf(&b, "%s%s %s\n", cursor, output.Checkbox(todo.Completed), output.DisplayText(todo.Text))
		}
	}

	b.WriteString("\n")
	output.FormatRemaining(&b, st.Remaining)
	b.WriteString("\n" + footer + "\n")
	return b.String()
}

func writeTitle(b *strings.Builder, st controller.State) {
	title := fmt.Sprintf("Todos (%s)", st.Mode)
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}
