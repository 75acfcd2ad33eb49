package directory

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Render writes the view as a plain-text table followed by the pagination
// footer.
func Render(w io.Writer, v *View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tROLE\tDEPARTMENT\tCONTACT\tJOINED\tSTATUS\tACTIONS")
	for _, r := range v.Rows {
		labels := make([]string, len(r.Actions))
		for i, a := range r.Actions {
			labels[i] = a.Label
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Name, r.Role, r.Department, contact(r), r.JoiningDate, r.Status, strings.Join(labels, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	p := v.Pagination
	if len(v.Rows) == 0 {
		fmt.Fprintln(w, "No staff members found.")
	}
	_, err := fmt.Fprintf(w, "%s  (page %d of %d, %d per page)\n",
		p.Label, displayPage(p), p.TotalPages, p.PageSize)
	return err
}

func contact(r Row) string {
	switch {
	case r.Email != "" && r.Phone != "":
		return r.Email + " / " + r.Phone
	case r.Email != "":
		return r.Email
	}
	return r.Phone
}

func displayPage(p Pagination) int {
	if p.TotalPages == 0 {
		return 0
	}
	return p.CurrentPage + 1
}
