package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"procentric-epg/archive"
	"procentric-epg/consts"
	"procentric-epg/guide"
	"procentric-epg/skynz"
	"procentric-epg/sources"
	"procentric-epg/xmltv"
)

func buildGuide(src sources.Source) (*guide.ProgramGuide, error) {
	switch src.Kind {
	case sources.KindSkyNZ:
		return skynz.New(src.URL, src.Title, src.Timezone).Guide()
	case sources.KindXMLTV:
		return xmltv.New(src.URL, src.Title, src.Timezone).Guide()
	default:
		return nil, fmt.Errorf("unknown source kind %q", src.Kind)
	}
}

// run processes each source in turn; one source failing never stops
// the rest of the run.
func run(list []sources.Source) {
	for _, src := range list {
		logger := log.With("source", src.Title)
		logger.Info("fetching and parsing guide data...")
		g, err := buildGuide(src)
		if err != nil {
			logger.Error("source failed", "err", err)
			continue
		}
		zipPath, err := archive.SaveAndZip(g, src.Subdirs, src.Archive)
		if err != nil {
			logger.Error("archiving failed", "err", err)
			continue
		}
		logger.Info("guide archived",
			"channels", len(g.Channels), "maxMinutes", g.MaxMinutes, "zip", zipPath)
	}
}

func discover() {
	list, err := sources.Discover(consts.XMLTV_INDEX_URL)
	if err != nil {
		log.Fatal("feed discovery failed", "err", err)
	}
	if err := sources.Save(list); err != nil {
		log.Fatal("cannot save source list", "err", err)
	}
	log.Info("source list saved", "sources", len(list))
}

func main() {
	log.SetLevel(log.DebugLevel)
	log.SetDefault(log.Default().With("run", uuid.NewString()[:8]))

	if len(os.Args) > 1 && os.Args[1] == "discover" {
		discover()
		return
	}

	list, err := sources.Load()
	if err != nil {
		log.Fatal("cannot load source list", "err", err)
	}
	run(list)
	log.Info("EPG update completed")
}
