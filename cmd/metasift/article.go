package main

import (
	"encoding/json"
	"fmt"

	"github.com/siftworks/metasift"
	"github.com/siftworks/metasift/scrape"
)

// Run executes the article command.
func (c *ArticleCmd) Run(deps *Dependencies) error {
	scraper := &scrape.Scraper{
		Fetcher:  deps.Fetcher,
		Articles: deps.Articles,
	}

	article, err := scraper.Article(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", metasift.ErrorMessage(err))
		return err
	}

	out, err := json.MarshalIndent(article, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, string(out))
	return nil
}
