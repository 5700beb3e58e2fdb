package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/gabriel-goncalves1122/SGPA/core/report"
)

func (cli *commandLine) report(filter report.QueryFilter) error {
	rows, err := cli.reportSvc.Projects(context.Background(), filter)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TITULO\tORIENTADOR\tALUNOS\tTAREFAS\tCONCLUIDAS (%)")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", r.Title, r.Advisor.Name, r.NumStudents, r.TotalTasks, r.PercentCompleted)
	}
	return w.Flush()
}
