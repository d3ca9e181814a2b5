// Package xmltv normalizes xmltv.net city feeds into the canonical
// model.
package xmltv

import (
	"encoding/xml"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/charmbracelet/log"

	"procentric-epg/fetch"
	"procentric-epg/guide"
)

// Source fetches and parses one XMLTV city feed.
type Source struct {
	URL      string
	Title    string
	TZOffset int // minutes east of UTC for the displayed date/time
}

func New(url, title string, tzOffset int) *Source {
	return &Source{URL: url, Title: title, TZOffset: tzOffset}
}

type document struct {
	XMLName    xml.Name    `xml:"tv"`
	Channels   []channel   `xml:"channel"`
	Programmes []programme `xml:"programme"`
}

type channel struct {
	ID          string `xml:"id,attr"`
	DisplayName string `xml:"display-name"`
}

type programme struct {
	Channel  string `xml:"channel,attr"`
	Start    string `xml:"start,attr"`
	Stop     string `xml:"stop,attr"`
	Title    string `xml:"title"`
	Desc     string `xml:"desc"`
	Category string `xml:"category"`
	Rating   struct {
		Value string `xml:"value"`
	} `xml:"rating"`
}

const idChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomID synthesizes an event identifier; the feed provides none.
// Collisions across channels or runs are tolerated downstream.
func randomID() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = idChars[rand.Intn(len(idChars))]
	}
	return string(b)
}

// Parse maps one XMLTV feed onto the canonical guide model. Programmes
// sit beside the channels in the document and are correlated by their
// channel attribute.
func (s *Source) Parse(data []byte) (*guide.ProgramGuide, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s feed: %w", s.Title, err)
	}

	byChannel := make(map[string][]programme, len(doc.Channels))
	for _, p := range doc.Programmes {
		byChannel[p.Channel] = append(byChannel[p.Channel], p)
	}

	g := guide.New(s.Title, s.TZOffset)
	for _, ch := range doc.Channels {
		out := guide.Channel{
			ChannelID:  ch.ID,
			Name:       guide.CleanString(ch.DisplayName),
			Resolution: "HD",
			Events:     []guide.Event{},
		}
		for _, p := range byChannel[ch.ID] {
			ev, err := s.event(p)
			if err != nil {
				log.Warn("skipping programme with bad timestamp",
					"channel", ch.ID, "title", p.Title, "err", err)
				continue
			}
			out.Events = append(out.Events, ev)
		}
		g.Channels = append(g.Channels, out)
	}
	g.MaxMinutes = guide.TotalMinutes(g.Channels)
	return g, nil
}

func (s *Source) event(p programme) (guide.Event, error) {
	date, clock, err := guide.WireClock(p.Start, s.TZOffset)
	if err != nil {
		return guide.Event{}, err
	}
	// Duration honors the offsets embedded in start/stop; the configured
	// offset only shifts the displayed date and time.
	mins, err := guide.WireMinutes(p.Start, p.Stop)
	if err != nil {
		return guide.Event{}, err
	}
	return guide.Event{
		EventID:          randomID(),
		Title:            guide.CleanString(p.Title),
		EventDescription: guide.CleanString(p.Desc),
		Rating:           guide.CleanString(p.Rating.Value),
		Date:             date,
		StartTime:        clock,
		Length:           strconv.Itoa(mins),
		Genre:            guide.CleanString(p.Category),
	}, nil
}

// Guide fetches the feed and parses it.
func (s *Source) Guide() (*guide.ProgramGuide, error) {
	data, err := fetch.Get(s.URL, nil)
	if err != nil {
		return nil, err
	}
	return s.Parse(data)
}
