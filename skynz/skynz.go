// Package skynz normalizes the Sky NZ GraphQL programme guide into the
// canonical model.
package skynz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"procentric-epg/consts"
	"procentric-epg/fetch"
	"procentric-epg/guide"
)

// ErrBadShape reports a response missing the data.experience.channelGroup
// path the parser depends on.
var ErrBadShape = errors.New("unexpected response shape: missing data.experience.channelGroup")

const channelGroupID = "4b7LA20J4iHaThwky9iVqn"

const channelGroupQuery = `query getChannelGroup($id: ID!, $date: LocalDate) { experience(appId: TV_GUIDE_WEB) { channelGroup(id: $id) { id title channels { ... on LinearChannel { id title number tileImage { uri __typename } slotsForDay(date: $date) { slots { id startMs endMs live programme { ... on Episode { id title synopsis show { id title type __typename } __typename } ... on Movie { id title synopsis __typename } ... on PayPerViewEventProgram { id title synopsis __typename } } __typename } } __typename } } __typename } __typename } }`

// Source fetches and parses one Sky NZ channel group.
type Source struct {
	URL      string
	Title    string
	TZOffset int // minutes east of UTC applied to slot timestamps; 0 keeps them in UTC
}

func New(url, title string, tzOffset int) *Source {
	return &Source{URL: url, Title: title, TZOffset: tzOffset}
}

type response struct {
	Data *struct {
		Experience *struct {
			ChannelGroup *channelGroup `json:"channelGroup"`
		} `json:"experience"`
	} `json:"data"`
}

type channelGroup struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Channels []channel `json:"channels"`
}

type channel struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// Kept raw: a missing or malformed schedule must not fail the guide.
	SlotsForDay json.RawMessage `json:"slotsForDay"`
}

// slot carries the programme as a loose object because the upstream
// union (episode, movie, pay-per-view) only shares title and synopsis.
type slot struct {
	ID        string         `json:"id"`
	StartMs   int64          `json:"startMs"`
	EndMs     int64          `json:"endMs"`
	Programme map[string]any `json:"programme"`
}

// Fetch posts the channel-group query for the given date (YYYY-MM-DD)
// and returns the raw response body.
func (s *Source) Fetch(date string) ([]byte, error) {
	body, err := json.Marshal(map[string]any{
		"query": channelGroupQuery,
		"variables": map[string]string{
			"id":   channelGroupID,
			"date": date,
		},
	})
	if err != nil {
		return nil, err
	}
	return fetch.Post(s.URL, "application/json", body)
}

// Parse maps one GraphQL response body onto the canonical guide model.
func (s *Source) Parse(data []byte) (*guide.ProgramGuide, error) {
	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", s.Title, err)
	}
	if resp.Data == nil || resp.Data.Experience == nil || resp.Data.Experience.ChannelGroup == nil {
		return nil, ErrBadShape
	}

	g := guide.New(s.Title, s.TZOffset)
	for _, ch := range resp.Data.Experience.ChannelGroup.Channels {
		out := guide.Channel{
			ChannelID:  ch.ID,
			Name:       guide.CleanString(ch.Title),
			Resolution: "HD",
			Events:     []guide.Event{},
		}
		for _, sl := range decodeSlots(ch) {
			date, clock := guide.MsClock(sl.StartMs, s.TZOffset)
			out.Events = append(out.Events, guide.Event{
				EventID:          sl.ID,
				Title:            guide.SafeText(sl.Programme, "title", ""),
				EventDescription: guide.SafeText(sl.Programme, "synopsis", ""),
				Rating:           "",
				Date:             date,
				StartTime:        clock,
				Length:           strconv.Itoa(guide.MsMinutes(sl.StartMs, sl.EndMs)),
				Genre:            guide.SafeText(sl.Programme, "genre", ""),
			})
		}
		g.Channels = append(g.Channels, out)
	}
	g.MaxMinutes = guide.TotalMinutes(g.Channels)
	return g, nil
}

// decodeSlots tolerates a missing or malformed slotsForDay: the channel
// stays in the guide with no events.
func decodeSlots(ch channel) []slot {
	if len(ch.SlotsForDay) == 0 || string(ch.SlotsForDay) == "null" {
		log.Warn("slotsForDay missing, channel kept with no events", "channel", ch.Title)
		return nil
	}
	var day struct {
		Slots []slot `json:"slots"`
	}
	if err := json.Unmarshal(ch.SlotsForDay, &day); err != nil {
		log.Warn("slotsForDay malformed, channel kept with no events", "channel", ch.Title, "err", err)
		return nil
	}
	return day.Slots
}

// Guide fetches today's schedule and parses it.
func (s *Source) Guide() (*guide.ProgramGuide, error) {
	date := time.Now().In(guide.Zone(s.TZOffset)).Format(consts.DATE_FORMAT)
	data, err := s.Fetch(date)
	if err != nil {
		return nil, err
	}
	return s.Parse(data)
}
