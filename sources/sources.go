// Package sources holds the upstream feed descriptors the driver loops
// over, plus discovery of new XMLTV city feeds.
package sources

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"

	"procentric-epg/fetch"
)

const (
	KindXMLTV = "xmltv"
	KindSkyNZ = "skynz"
)

// Source describes one upstream guide feed.
type Source struct {
	Kind     string   `yaml:"kind"`
	URL      string   `yaml:"url"`
	Title    string   `yaml:"title"`
	Timezone int      `yaml:"timezone"` // minutes east of UTC
	Subdirs  []string `yaml:"subdirs"`
	Archive  string   `yaml:"archive"`
}

const sourcesFile = "sources.yaml"

// Defaults is the stock run list: four Australian XMLTV cities plus the
// Sky NZ GraphQL endpoint.
func Defaults() []Source {
	return []Source{
		{
			Kind:    KindXMLTV,
			URL:     "https://xmltv.net/xml_files/Sydney.xml",
			Title:   "Pro:Centric JSON Program Guide Data AUS Sydney",
			Subdirs: []string{"EPG", "AU", "Sydney"},
			Archive: "Procentric_EPG_SYD",
		},
		{
			Kind:    KindXMLTV,
			URL:     "https://xmltv.net/xml_files/Brisbane.xml",
			Title:   "Pro:Centric JSON Program Guide Data AUS Brisbane",
			Subdirs: []string{"EPG", "AU", "Brisbane"},
			Archive: "Procentric_EPG_BRN",
		},
		{
			Kind:    KindXMLTV,
			URL:     "https://xmltv.net/xml_files/Adelaide.xml",
			Title:   "Pro:Centric JSON Program Guide Data AUS Adelaide",
			Subdirs: []string{"EPG", "AU", "Adelaide"},
			Archive: "Procentric_EPG_ADL",
		},
		{
			Kind:    KindXMLTV,
			URL:     "https://xmltv.net/xml_files/Goldcoast.xml",
			Title:   "Pro:Centric JSON Program Guide Data AUS Gold Coast",
			Subdirs: []string{"EPG", "AU", "GoldCoast"},
			Archive: "Procentric_EPG_GLD",
		},
		{
			Kind:    KindSkyNZ,
			URL:     "https://api.skyone.co.nz/exp/graph",
			Title:   "Pro:Centric JSON Program Guide Data NZL",
			Subdirs: []string{"EPG", "NZ"},
			Archive: "Procentric_EPG_NZL",
		},
	}
}

// Load reads sources.yaml, falling back to Defaults when it is absent
// or empty.
func Load() ([]Source, error) {
	_, err := os.Stat(sourcesFile)
	if os.IsNotExist(err) {
		return Defaults(), nil
	} else if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(sourcesFile)
	if err != nil {
		return nil, err
	}
	var list []Source
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("unmarshaling %s: %w", sourcesFile, err)
	}
	if len(list) == 0 {
		return Defaults(), nil
	}
	return list, nil
}

// Save writes the source list through a temp file and rename.
func Save(list []Source) error {
	data, err := yaml.Marshal(list)
	if err != nil {
		return err
	}
	tmp := sourcesFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, sourcesFile)
}

// Discover scrapes an xmltv.net style index page for city feed links
// and builds XMLTV source entries from them.
func Discover(indexURL string) ([]Source, error) {
	body, err := fetch.Get(indexURL, nil)
	if err != nil {
		return nil, err
	}
	return parseIndex(indexURL, body)
}

func parseIndex(indexURL string, body []byte) ([]Source, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var list []Source
	seen := map[string]bool{}
	doc.Find("a").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.HasSuffix(href, ".xml") {
			return
		}
		city := strings.TrimSuffix(path.Base(href), ".xml")
		if city == "" || seen[city] {
			return
		}
		seen[city] = true
		url := href
		if !strings.HasPrefix(href, "http") {
			url = strings.TrimSuffix(indexURL, "/") + "/" + strings.TrimPrefix(href, "/")
		}
		list = append(list, Source{
			Kind:    KindXMLTV,
			URL:     url,
			Title:   "Pro:Centric JSON Program Guide Data AUS " + city,
			Subdirs: []string{"EPG", "AU", city},
			Archive: "Procentric_EPG_" + cityCode(city),
		})
	})
	if len(list) == 0 {
		return nil, fmt.Errorf("no .xml feed links found at %s", indexURL)
	}
	return list, nil
}

// cityCode abbreviates a city name for the archive base name.
func cityCode(city string) string {
	c := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r
		}
		return -1
	}, strings.ToUpper(city))
	if len(c) > 3 {
		c = c[:3]
	}
	return c
}
