// Package yaml loads filter terms from YAML files.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"strings"

	wikidump "github.com/llamasoft/WikiDump"
	yaml "gopkg.in/yaml.v3"
)

// LoadTerms reads filter terms from a YAML file of the form:
//
//	categories:
//	  - novels
//	transclusions:
//	  - Infobox book
//
// Returns ENOTFOUND if the file does not exist and EINVALID if it does not
// parse or holds a blank term.
func LoadTerms(path string) (*wikidump.FilterTerms, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, wikidump.Errorf(wikidump.ENOTFOUND, "filters file not found: %s", path)
	} else if err != nil {
		return nil, fmt.Errorf("read filters file: %w", err)
	}
	return ParseTerms(b)
}

// ParseTerms decodes filter terms from YAML. Unknown keys are rejected so
// that a misspelled key does not silently put the filter in pass-through mode.
func ParseTerms(b []byte) (*wikidump.FilterTerms, error) {
	var terms wikidump.FilterTerms
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&terms); err != nil && !errors.Is(err, io.EOF) {
		return nil, wikidump.Errorf(wikidump.EINVALID, "parse filters: %v", err)
	}

	for _, list := range [][]string{terms.Categories, terms.Transclusions} {
		for _, term := range list {
			if strings.TrimSpace(term) == "" {
				return nil, wikidump.Errorf(wikidump.EINVALID, "filters file holds a blank term")
			}
		}
	}
	return &terms, nil
}
