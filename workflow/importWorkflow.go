package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"

	"bitbucket.org/mmdatafocus/envreview_backend/models"
	"github.com/xuri/excelize/v2"
)

// MocUpserter is the slice of the record-store client the reconciler needs.
type MocUpserter interface {
	UpsertMocs(ctx context.Context, rows []models.Moc) (int, error)
}

// ImportMocs parses a spreadsheet export and reconciles its rows into the
// MOC collection. First worksheet only; the header row defines the column
// set and missing cells default to "" so every row carries the full set.
// Each row upserts on the natural key from keyColumn: existing keys have
// their columns overwritten, new keys are created. Returns the number of
// rows applied; any row failure aborts the whole batch.
func ImportMocs(ctx context.Context, store MocUpserter, keyColumn string, r io.Reader) (int, error) {
	rows, err := parseSheet(r, keyColumn)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return store.UpsertMocs(ctx, rows)
}

func parseSheet(r io.Reader, keyColumn string) ([]models.Moc, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("spreadsheet has no worksheets")
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read worksheet: %w", err)
	}
	if len(raw) < 1 {
		return nil, nil
	}

	header := raw[0]

	var mocs []models.Moc
	for _, cells := range raw[1:] {
		columns := models.ColumnMap{}
		blank := true
		for i, name := range header {
			if name == "" {
				continue
			}
			value := ""
			if i < len(cells) {
				value = cells[i]
			}
			if value != "" {
				blank = false
			}
			columns[name] = value
		}
		if blank {
			continue
		}
		mocs = append(mocs, models.Moc{
			MocKey:  columns[keyColumn],
			Columns: columns,
		})
	}
	return mocs, nil
}
