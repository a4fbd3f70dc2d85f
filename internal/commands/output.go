package commands

import (
	"io"
	"text/tabwriter"
	"time"

	"github.com/phrazzld/lumina/internal/domain"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
}

func formatDate(ms int64, loc *time.Location) string {
	if ms == 0 {
		return "-"
	}
	return domain.TimeOf(ms, loc).Format("2006-01-02")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
