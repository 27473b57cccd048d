package lesson

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"time"
)

// csvHeader matches the historical export byte for byte, Italian column
// names included.
var csvHeader = []string{"Data", "Ora", "Studente", "Durata", "Prezzo", "Stato", "Pagata", "Note"}

// ExportCSV writes confirmed lessons to w, newest first, optionally limited
// to [from, to). Durations and prices use a decimal comma and paid is SI/NO:
// the export predates this service and downstream spreadsheets rely on the
// locale.
func (s *service) ExportCSV(ctx context.Context, from, to *time.Time, w io.Writer) error {
	lessons, err := s.repo.ListConfirmedBetween(ctx, from, to)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, l := range lessons {
		start := l.Start.In(s.zone)
		paid := "NO"
		if l.Paid {
			paid = "SI"
		}
		record := []string{
			start.Format("02/01/2006"),
			start.Format("15:04"),
			l.StudentName,
			decimalComma(l.DurationHours.StringFixed(1)),
			decimalComma(l.Price.StringFixed(2)),
			l.Status.Label(),
			paid,
			l.Note,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func decimalComma(s string) string {
	return strings.Replace(s, ".", ",", 1)
}
