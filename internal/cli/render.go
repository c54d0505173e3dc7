package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"redirector/internal/controller"
	"redirector/internal/domain/models"
	"redirector/internal/requests"
)

const goneMark = "(gone)"

// printItems writes the current page as a table followed by the position line.
func printItems(o *IO, v controller.View) {
	if len(v.Items) == 0 {
		o.Println("No redirects found")
		return
	}

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "\tOLD URL\tNEW URL")
	for _, it := range v.Items {
		mark := " "
		if it.Selected {
			mark = "*"
		}
		to := it.RedirectTo
		if to == "" {
			to = goneMark
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", mark, it.Path, to)
	}
	_ = tw.Flush()
	o.Printf("%s", b.String())

	o.Printf("page %d/%d, %d redirect(s)", v.Page, max(1, v.Pages), v.Total)
	if n := len(v.Selected); n > 0 {
		o.Printf(", %d selected", n)
	}
	o.Println()
}

// printStats writes the counters. Counters the backend did not report show as "-".
func printStats(o *IO, st *models.Statistics) {
	if st == nil {
		o.Println("No statistics")
		return
	}

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, row := range []struct {
		name string
		n    *int
	}{
		{"total", st.Total},
		{"internal", st.Internal},
		{"external", st.External},
		{"gone", st.Gone},
	} {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", row.name, counter(row.n))
	}
	_ = tw.Flush()
	o.Printf("%s", b.String())
}

func counter(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

// printRequestErrors reports failed loads of the view.
func printRequestErrors(o *IO, v controller.View) {
	for _, op := range []requests.Op{requests.Get, requests.GetStatistics} {
		if err := v.Requests[op].Err; err != nil {
			o.Warn("%s: %v", op, err)
		}
	}
}
