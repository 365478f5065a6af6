package dump

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	wikidump "github.com/llamasoft/WikiDump"
)

var siteInfoRe = regexp.MustCompile(`(?s)<siteinfo>.*?</siteinfo>`)

// SiteInfo describes the wiki a dump was exported from.
type SiteInfo struct {
	SiteName   string
	DBName     string
	Base       string
	Generator  string
	Case       string
	Namespaces map[int]string // key -> prefix; the main namespace has an empty prefix
}

// NamespaceName returns the prefix registered for a namespace key.
// The bool result is false if the key is not in the header.
func (i *SiteInfo) NamespaceName(key int) (string, bool) {
	if i == nil {
		return "", false
	}
	name, ok := i.Namespaces[key]
	return name, ok
}

// ParseSiteInfo parses the first <siteinfo> element found in b.
// Returns ENOTFOUND if b holds no complete siteinfo element.
func ParseSiteInfo(b []byte) (*SiteInfo, error) {
	loc := siteInfoRe.FindIndex(b)
	if loc == nil {
		return nil, wikidump.Errorf(wikidump.ENOTFOUND, "siteinfo not found")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(b[loc[0]:loc[1]]); err != nil {
		return nil, wikidump.Errorf(wikidump.EINVALID, "failed to parse siteinfo: %v", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, wikidump.Errorf(wikidump.EINVALID, "empty siteinfo")
	}

	info := &SiteInfo{
		SiteName:   childText(root, "sitename"),
		DBName:     childText(root, "dbname"),
		Base:       childText(root, "base"),
		Generator:  childText(root, "generator"),
		Case:       childText(root, "case"),
		Namespaces: make(map[int]string),
	}

	if namespaces := root.SelectElement("namespaces"); namespaces != nil {
		for _, ns := range namespaces.SelectElements("namespace") {
			key, err := strconv.Atoi(ns.SelectAttrValue("key", ""))
			if err != nil {
				continue
			}
			info.Namespaces[key] = strings.TrimSpace(ns.Text())
		}
	}

	return info, nil
}

func childText(e *etree.Element, tag string) string {
	child := e.SelectElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}
