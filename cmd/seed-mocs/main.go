// seed-mocs creates a handful of sample MOC rows for development. Existing
// rows with the same natural key are overwritten (same upsert path as the
// spreadsheet importer), so the command is safe to re-run.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-mocs
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/envreview_backend/config"
	"bitbucket.org/mmdatafocus/envreview_backend/models"
	"bitbucket.org/mmdatafocus/envreview_backend/store"
)

func main() {
	ctx := context.Background()

	db := config.ConnectDatabaseWithRetry()
	if err := models.MigrateTable(db); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
	client := store.NewClient(db)

	keyColumn := config.MocKeyColumn()
	rows := []models.Moc{
		{
			MocKey: "ML.A1 | 2025 | 3356",
			Columns: models.ColumnMap{
				keyColumn:            "ML.A1 | 2025 | 3356",
				"Change Title":       "Replace reflux pump seals",
				"Change Description": "Swap single mechanical seals for dual seals on P-204A/B.",
				"MOC Owner":          "D. Alvarez",
				"MOC Status":         "Open",
				"Location":           "Unit A1",
			},
		},
		{
			MocKey: "ML.A1 | 2025 | 3357",
			Columns: models.ColumnMap{
				keyColumn:            "ML.A1 | 2025 | 3357",
				"Change Title":       "Temporary diesel generator for turnaround",
				"Change Description": "Rental generator sited near the east flare during the October turnaround.",
				"MOC Owner":          "K. Osei",
				"MOC Status":         "Open",
				"Location":           "East yard",
			},
		},
		{
			MocKey: "ML.B2 | 2025 | 3101",
			Columns: models.ColumnMap{
				keyColumn:            "ML.B2 | 2025 | 3101",
				"Change Title":       "Re-route vent header to thermal oxidizer",
				"Change Description": "Tie tank farm vent header into the TO inlet knockout drum.",
				"MOC Owner":          "S. Brandt",
				"MOC Status":         "In Review",
				"Location":           "Tank farm",
			},
		},
	}

	count, err := client.UpsertMocs(ctx, rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed mocs: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seeded %d MOC rows\n", count)
}
