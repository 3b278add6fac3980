package reports

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// notReturnedSentinel is what an open loan's return date renders as in CSV
// exports, so spreadsheet consumers see an explicit value instead of a blank
// cell.
const notReturnedSentinel = "Not returned"

// RemindersCSVFilename is the attachment name for the reminders export.
const RemindersCSVFilename = "reminders.csv"

// BookHistoryCSVFilename builds the attachment name for a book's history
// export from its title.
func BookHistoryCSVFilename(title string) string {
	return "book_history_" + strings.ReplaceAll(title, " ", "_") + ".csv"
}

// WriteRemindersCSV renders the reminders report with a fixed column order.
func WriteRemindersCSV(w io.Writer, rows []ReminderRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Title", "Customer", "Date of Issue", "Return Until", "Days Overdue"}); err != nil {
		return errors.WithStack(err)
	}
	for _, row := range rows {
		record := []string{
			row.BookTitle,
			row.CustomerName,
			row.DateOfIssue.String(),
			row.ReturnUntil.String(),
			strconv.Itoa(row.DaysOverdue),
		}
		if err := cw.Write(record); err != nil {
			return errors.WithStack(err)
		}
	}

	cw.Flush()
	return errors.WithStack(cw.Error())
}

// WriteBookHistoryCSV renders a book's loan history with a fixed column
// order.
func WriteBookHistoryCSV(w io.Writer, rows []HistoryRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Customer", "Date of Issue", "Return Date", "Return Until", "Status"}); err != nil {
		return errors.WithStack(err)
	}
	for _, row := range rows {
		returnDate := notReturnedSentinel
		if row.ReturnDate != nil {
			returnDate = row.ReturnDate.String()
		}
		record := []string{
			row.CustomerName,
			row.DateOfIssue.String(),
			returnDate,
			row.ReturnUntil.String(),
			row.Status,
		}
		if err := cw.Write(record); err != nil {
			return errors.WithStack(err)
		}
	}

	cw.Flush()
	return errors.WithStack(cw.Error())
}
