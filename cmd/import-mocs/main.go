// import-mocs runs the spreadsheet reconciler headless against an .xlsx file
// on disk. Same semantics as the upload endpoint: first worksheet, upsert on
// the natural key column, all-or-nothing.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//	  go run ./cmd/import-mocs path/to/mocs.xlsx
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/envreview_backend/config"
	"bitbucket.org/mmdatafocus/envreview_backend/models"
	"bitbucket.org/mmdatafocus/envreview_backend/store"
	"bitbucket.org/mmdatafocus/envreview_backend/workflow"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: import-mocs <file.xlsx>")
		os.Exit(2)
	}
	path := os.Args[1]

	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", path, err)
		os.Exit(1)
	}
	defer file.Close()

	db := config.ConnectDatabaseWithRetry()
	if err := models.MigrateTable(db); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
	client := store.NewClient(db)

	count, err := workflow.ImportMocs(context.Background(), client, config.MocKeyColumn(), file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("imported %d rows from %s\n", count, path)
}
