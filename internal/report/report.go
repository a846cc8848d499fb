package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/exp/maps"

	"github.com/elainajones/robotkit/internal/robot"
)

// Heading is the report's column layout.
var Heading = []string{
	"Start Time",
	"Suite",
	"Test Case ID",
	"Test Case Name",
	"Run Results",
	"Fail Count",
	"Failure Reason",
	"Duration",
	"Link",
	"Tags",
}

// Rows joins consolidated run results with the suite index and
// returns the report rows, heading first.  Results with no matching
// test case in the suite index are logged and skipped.
func Rows(tcs robot.TestCases, runs map[string]Run, link string) [][]string {
	rows := [][]string{Heading}

	keys := maps.Keys(runs)
	sort.Strings(keys)

	for _, key := range keys {
		run := runs[key]
		tc, ok := tcs[key]
		if !ok {
			glog.Warningf("No suite data for result %q, skipping", key)
			continue
		}

		fails := SplitMessages(firstOr(run.Fails))
		skips := SplitMessages(firstOr(run.Skips))

		failCount := ""
		if len(fails) > 0 {
			failCount = strconv.Itoa(len(fails))
		}

		start := ""
		if t, err := dateparse.ParseAny(run.Timestamp); err == nil {
			start = t.Format("2006-01-02 15:04:05")
		}

		rows = append(rows, []string{
			start,
			tc.Suite,
			tc.ID,
			tc.Name,
			Status(fails, skips),
			failCount,
			FailSummary(fails, skips),
			Duration(run.Time),
			link,
			strings.Join(tc.Tags, " "),
		})
	}
	return rows
}

// Duration converts seconds to hh:mm:ss.
func Duration(seconds float64) string {
	s := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// WriteXLSX writes the report rows to a single-sheet workbook.  Each
// report is stamped with a random run identifier in the document
// properties so reports copied around the lab can still be told
// apart.
func WriteXLSX(path string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:    "robotkit",
		Identifier: uuid.NewString(),
	}); err != nil {
		return err
	}

	return f.SaveAs(path)
}

// ReportPath returns an unused report path under dir, incrementing a
// numeric suffix until the name is free.
func ReportPath(dir string) string {
	const name = "robot_report"
	for n := 0; ; n++ {
		file := name
		if n > 0 {
			file += fmt.Sprintf("_%d", n)
		}
		p := filepath.Join(dir, file+".xlsx")
		// Any stat failure ends the search; only an existing path
		// forces the next suffix.
		if fi, err := os.Stat(p); err != nil || !fi.Mode().IsRegular() {
			return p
		}
	}
}
