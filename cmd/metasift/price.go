package main

import (
	"encoding/json"
	"fmt"

	"github.com/siftworks/metasift"
	"github.com/siftworks/metasift/scrape"
)

// Run executes the price command.
func (c *PriceCmd) Run(deps *Dependencies) error {
	scraper := &scrape.Scraper{
		Fetcher: deps.Fetcher,
		Prices:  deps.Prices,
	}

	info, err := scraper.Price(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", metasift.ErrorMessage(err))
		return err
	}

	out, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, string(out))
	return nil
}
