package metasift

// Watchlist is a set of product pages tracked in one batch run.
type Watchlist struct {
	Targets []WatchTarget `yaml:"targets"`
}

// WatchTarget is a single tracked product page.
type WatchTarget struct {
	URL string `yaml:"url"`

	// Output overrides the file the observation is written to.
	Output string `yaml:"output,omitempty"`
}

// Validate returns an error if the watchlist cannot be tracked.
func (w *Watchlist) Validate() error {
	if len(w.Targets) == 0 {
		return Errorf(EINVALID, "watchlist has no targets")
	}
	for _, t := range w.Targets {
		if t.URL == "" {
			return Errorf(EINVALID, "watchlist target URL required")
		}
	}
	return nil
}

// URLs returns the target URLs in declaration order.
func (w *Watchlist) URLs() []string {
	urls := make([]string, 0, len(w.Targets))
	for _, t := range w.Targets {
		urls = append(urls, t.URL)
	}
	return urls
}
