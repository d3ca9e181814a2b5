package guide

import (
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"procentric-epg/consts"
)

// Event is one scheduled broadcast. Field names are a wire contract
// consumed by Pro:Centric displays and must not change.
type Event struct {
	EventID          string `json:"eventID"`
	Title            string `json:"title"`
	EventDescription string `json:"eventDescription"`
	Rating           string `json:"rating"`
	Date             string `json:"date"`      // YYYY-MM-DD
	StartTime        string `json:"startTime"` // HHMM, 24-hour
	Length           string `json:"length"`    // minutes
	Genre            string `json:"genre"`
}

type Channel struct {
	ChannelID  string  `json:"channelID"`
	Name       string  `json:"name"`
	Resolution string  `json:"resolution"`
	Events     []Event `json:"events"`
}

type ProgramGuide struct {
	Filetype   string    `json:"filetype"`
	Version    string    `json:"version"`
	FetchTime  string    `json:"fetchTime"`
	MaxMinutes int       `json:"maxMinutes"`
	Channels   []Channel `json:"channels"`
}

// New returns an empty guide stamped with the current fetch time in the
// given fixed offset (minutes east of UTC).
func New(filetype string, tzOffset int) *ProgramGuide {
	return &ProgramGuide{
		Filetype:  filetype,
		Version:   consts.GUIDE_VERSION,
		FetchTime: FetchTime(time.Now(), tzOffset),
		Channels:  []Channel{},
	}
}

func FetchTime(t time.Time, tzOffset int) string {
	return t.In(Zone(tzOffset)).Format(consts.FETCH_TIME_FORMAT)
}

// TotalMinutes sums event lengths across every channel. An event whose
// length does not parse as an integer counts as 0 minutes.
func TotalMinutes(channels []Channel) int {
	total := 0
	for _, ch := range channels {
		for _, ev := range ch.Events {
			mins, err := strconv.Atoi(ev.Length)
			if err != nil {
				log.Warn("invalid event length, treating as 0 minutes",
					"channel", ch.ChannelID, "event", ev.EventID, "length", ev.Length)
				continue
			}
			total += mins
		}
	}
	return total
}
