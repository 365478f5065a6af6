package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	wikidump "github.com/llamasoft/WikiDump"
	"github.com/llamasoft/WikiDump/dump"
)

// Run executes the info command.
func (c *InfoCmd) Run(deps *Dependencies) error {
	in, err := openInput(deps, c.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	// The header is parsed when the first page is reached.
	scanner := dump.NewScanner(in, dump.WithCounter(in))
	if _, err := scanner.Next(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	info := scanner.SiteInfo()
	if info == nil {
		fmt.Fprintf(deps.Stderr, "error: %s has no siteinfo header\n", c.Input)
		return wikidump.Errorf(wikidump.ENOTFOUND, "siteinfo not found")
	}

	fmt.Fprintf(deps.Stdout, "Site:       %s\n", info.SiteName)
	fmt.Fprintf(deps.Stdout, "Database:   %s\n", info.DBName)
	fmt.Fprintf(deps.Stdout, "Base:       %s\n", info.Base)
	fmt.Fprintf(deps.Stdout, "Generator:  %s\n", info.Generator)
	fmt.Fprintf(deps.Stdout, "Case:       %s\n", info.Case)
	fmt.Fprintf(deps.Stdout, "Namespaces: %d\n", len(info.Namespaces))
	for _, key := range slices.Sorted(maps.Keys(info.Namespaces)) {
		name := info.Namespaces[key]
		if name == "" {
			name = "(main)"
		}
		fmt.Fprintf(deps.Stdout, "  %6d  %s\n", key, name)
	}
	return nil
}
