package skynz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
  "data": {
    "experience": {
      "channelGroup": {
        "id": "4b7LA20J4iHaThwky9iVqn",
        "title": "All channels",
        "channels": [
          {
            "id": "ch-1",
            "title": "Sky Open",
            "slotsForDay": {
              "slots": [
                {
                  "id": "slot-1",
                  "startMs": 1711267200000,
                  "endMs": 1711270800000,
                  "programme": {
                    "__typename": "Episode",
                    "title": "The Hobbit: An Unexpected Journey",
                    "synopsis": "Bilbo’s quest begins."
                  }
                },
                {
                  "id": "slot-2",
                  "startMs": 1711270800000,
                  "endMs": 1711272600000,
                  "programme": null
                }
              ]
            }
          },
          {
            "id": "ch-2",
            "title": "Sky Sport"
          }
        ]
      }
    }
  }
}`

func TestParse(t *testing.T) {
	s := New("https://api.skyone.co.nz/exp/graph", "Pro:Centric JSON Program Guide Data NZL", 0)
	g, err := s.Parse([]byte(sampleResponse))
	require.NoError(t, err)

	assert.Equal(t, "Pro:Centric JSON Program Guide Data NZL", g.Filetype)
	assert.Equal(t, "1.0", g.Version)
	require.Len(t, g.Channels, 2)

	ch := g.Channels[0]
	assert.Equal(t, "ch-1", ch.ChannelID)
	assert.Equal(t, "Sky Open", ch.Name)
	assert.Equal(t, "HD", ch.Resolution)
	require.Len(t, ch.Events, 2)

	ev := ch.Events[0]
	assert.Equal(t, "slot-1", ev.EventID)
	assert.Equal(t, "The Hobbit: An Unexpected Journey", ev.Title)
	assert.Equal(t, "Bilbo's quest begins.", ev.EventDescription)
	assert.Equal(t, "2024-03-24", ev.Date)
	assert.Equal(t, "0800", ev.StartTime)
	assert.Equal(t, "60", ev.Length)
	assert.Equal(t, "", ev.Genre)
	assert.Equal(t, "", ev.Rating)

	// Null programme: defensive defaults, slot timing still derived.
	ev = ch.Events[1]
	assert.Equal(t, "slot-2", ev.EventID)
	assert.Equal(t, "", ev.Title)
	assert.Equal(t, "", ev.EventDescription)
	assert.Equal(t, "30", ev.Length)

	assert.Equal(t, 90, g.MaxMinutes)
}

func TestParseChannelWithoutSlots(t *testing.T) {
	s := New("", "NZL", 0)
	g, err := s.Parse([]byte(sampleResponse))
	require.NoError(t, err)

	// The channel lacking slotsForDay is still in the guide, eventless.
	ch := g.Channels[1]
	assert.Equal(t, "ch-2", ch.ChannelID)
	assert.NotNil(t, ch.Events)
	assert.Empty(t, ch.Events)
}

func TestParseMalformedSlots(t *testing.T) {
	body := `{"data":{"experience":{"channelGroup":{"channels":[
		{"id":"ch-1","title":"Sky Open","slotsForDay":[1,2,3]}
	]}}}}`
	s := New("", "NZL", 0)
	g, err := s.Parse([]byte(body))
	require.NoError(t, err)
	require.Len(t, g.Channels, 1)
	assert.Empty(t, g.Channels[0].Events)
}

func TestParseBadShape(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"null data", `{"data":null}`},
		{"missing experience", `{"data":{}}`},
		{"missing channelGroup", `{"data":{"experience":{}}}`},
		{"graphql error response", `{"errors":[{"message":"boom"}]}`},
	}
	s := New("", "NZL", 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := s.Parse([]byte(tt.body))
			assert.Nil(t, g)
			assert.ErrorIs(t, err, ErrBadShape)
		})
	}
}

func TestParseInvalidJSON(t *testing.T) {
	s := New("", "NZL", 0)
	g, err := s.Parse([]byte("<html>not json</html>"))
	assert.Nil(t, g)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadShape)
}

func TestParseTimezoneOffset(t *testing.T) {
	// Offset 0 reproduces the stock behavior: slot milliseconds read as
	// UTC. A configured offset shifts the displayed clock.
	s := New("", "NZL", 13*60)
	g, err := s.Parse([]byte(sampleResponse))
	require.NoError(t, err)

	ev := g.Channels[0].Events[0]
	assert.Equal(t, "2024-03-24", ev.Date)
	assert.Equal(t, "2100", ev.StartTime)
	// Duration is offset-independent.
	assert.Equal(t, "60", ev.Length)
}

func TestFetchBodyShape(t *testing.T) {
	body, err := json.Marshal(map[string]any{
		"query": channelGroupQuery,
		"variables": map[string]string{
			"id":   channelGroupID,
			"date": "2025-03-24",
		},
	})
	require.NoError(t, err)

	var decoded struct {
		Query     string            `json:"query"`
		Variables map[string]string `json:"variables"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Contains(t, decoded.Query, "channelGroup(id: $id)")
	assert.Equal(t, channelGroupID, decoded.Variables["id"])
	assert.Equal(t, "2025-03-24", decoded.Variables["date"])
}
