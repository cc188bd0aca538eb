package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/forgeflow-labs/forgeflow/internal/validate"
)

// printReport renders a validation report, one line per issue, with a
// colored verdict line.
func printReport(report *validate.Report) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	for _, issue := range report.Issues {
		tag := yellow("warn")
		if issue.Severity == validate.SeverityError {
			tag = red("error")
		}
		fmt.Printf("  %s %s %s %s\n",
			tag, issue.Artifact, gray(issue.Check+"/"+issue.Code), issue.Message)
	}

	if report.Passed {
		fmt.Printf("Validation: %s\n", green("passed"))
		return
	}
	fmt.Printf("Validation: %s (%d error(s))\n", red("failed"), len(report.Errors()))
}
