package main

import (
	"fmt"
	"time"

	"github.com/siftworks/metasift"
	"github.com/siftworks/metasift/sqlite"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	path := c.DB
	if path == "" {
		path = deps.DBPath
	}

	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "Hint: set METASIFT_DB or pass --db to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	defer db.Close()

	svc := sqlite.NewPriceService(db)

	infos, err := svc.FindPrices(deps.Ctx, metasift.PriceFilter{
		URL:   &c.URL,
		Limit: c.Limit,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", metasift.ErrorMessage(err))
		return err
	}

	if len(infos) == 0 {
		fmt.Fprintf(deps.Stdout, "No observations recorded for %s\n", c.URL)
		return nil
	}

	for _, info := range infos {
		price := "-"
		if info.Price != nil {
			price = fmt.Sprintf("%.2f %s", *info.Price, info.Currency)
		}
		line := fmt.Sprintf("%s  %s", info.Timestamp.UTC().Format(time.RFC3339), price)
		if info.Availability != "" {
			line += "  " + info.Availability
		}
		fmt.Fprintln(deps.Stdout, line)
	}
	return nil
}
