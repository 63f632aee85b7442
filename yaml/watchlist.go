// Package yaml loads watchlist files for batch tracking runs.
package yaml

import (
	"os"

	"github.com/siftworks/metasift"
	"gopkg.in/yaml.v3"
)

// LoadWatchlist reads and validates the watchlist file at path.
//
// The file format:
//
//	targets:
//	  - url: https://www.example.com/dp/B08N5WRWNW/
//	    output: widget.jsonl
//	  - url: https://www.example.com/dp/B000000002/
func LoadWatchlist(path string) (*metasift.Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, metasift.Errorf(metasift.EINVALID, "read watchlist %q: %v", path, err)
	}

	var list metasift.Watchlist
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, metasift.Errorf(metasift.EINVALID, "parse watchlist %q: %v", path, err)
	}
	if err := list.Validate(); err != nil {
		return nil, err
	}
	return &list, nil
}
