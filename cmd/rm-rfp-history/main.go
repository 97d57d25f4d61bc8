package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"rm-rfp/internal/database"
	"rm-rfp/internal/exitcodes"
)

func main() {
	dbPath := flag.String("db", "", "Path to deletion history database")
	recent := flag.Int("recent", 0, "Show N most recent deletions")
	largest := flag.Int("largest", 0, "Show N largest deletions")
	action := flag.String("action", "", "Filter by action (DELETE, DRY_RUN, ERROR)")
	pathPattern := flag.String("path", "", "Filter by path pattern (SQL LIKE syntax)")
	showStats := flag.Bool("stats", false, "Show history statistics")
	days := flag.Int("days", 30, "Number of days for statistics")
	jsonOutput := flag.Bool("json", false, "Output in JSON format")
	flag.Parse()

	if *dbPath == "" {
		flag.Usage()
		fmt.Println("\nExamples:")
		fmt.Println("  rm-rfp-history --db deletions.db --recent 10     # Show 10 most recent deletions")
		fmt.Println("  rm-rfp-history --db deletions.db --stats         # Show history statistics")
		fmt.Println("  rm-rfp-history --db deletions.db --action ERROR  # Show failed removals")
		fmt.Println("  rm-rfp-history --db deletions.db --path '/tmp/%' # Show deletions under /tmp")
		os.Exit(exitcodes.UsageError)
	}

	db, err := database.NewDeletionDB(*dbPath)
	if err != nil {
		log.Fatalf("ERROR: Failed to open database %s: %v", *dbPath, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("ERROR: Failed to close database: %v", err)
		}
	}()

	switch {
	case *showStats:
		printStats(db, *days, *jsonOutput)
	case *recent > 0:
		records, err := db.GetRecentDeletions(*recent)
		exitOnErr(err)
		printRecords(records, *jsonOutput)
	case *largest > 0:
		records, err := db.GetLargestDeletions(*largest)
		exitOnErr(err)
		printRecords(records, *jsonOutput)
	case *action != "":
		records, err := db.GetDeletionsByAction(*action)
		exitOnErr(err)
		printRecords(records, *jsonOutput)
	case *pathPattern != "":
		records, err := db.GetDeletionsByPath(*pathPattern)
		exitOnErr(err)
		printRecords(records, *jsonOutput)
	default:
		flag.Usage()
		os.Exit(exitcodes.UsageError)
	}
}

func exitOnErr(err error) {
	if err != nil {
		log.Fatalf("ERROR: Query failed: %v", err)
	}
}

func printRecords(records []database.DeletionRecord, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			log.Fatalf("ERROR: Failed to encode JSON: %v", err)
		}
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tACTION\tTYPE\tSIZE\tPATH\tERROR")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Timestamp.Format(time.RFC3339),
			r.Action,
			r.ObjectType,
			humanize.IBytes(uint64(r.Size)),
			r.Path,
			r.ErrorMessage,
		)
	}
	w.Flush()
}

func printStats(db *database.DeletionDB, days int, asJSON bool) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	freed, err := db.GetTotalSpaceFreed(start, end)
	exitOnErr(err)
	dbStats, err := db.GetDatabaseStats()
	exitOnErr(err)

	if asJSON {
		out := map[string]interface{}{
			"days":              days,
			"space_freed_bytes": freed,
		}
		for k, v := range dbStats {
			out[k] = v
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			log.Fatalf("ERROR: Failed to encode JSON: %v", err)
		}
		return
	}

	fmt.Printf("Space freed (last %d days): %s\n", days, humanize.IBytes(uint64(freed)))
	fmt.Printf("Total records: %v\n", dbStats["total_records"])
	if size, ok := dbStats["database_size_bytes"].(int64); ok {
		fmt.Printf("Database size: %s\n", humanize.IBytes(uint64(size)))
	}
}
