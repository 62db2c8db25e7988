package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fiffu/billwatch/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *AlisonClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Upstream.Endpoint = srv.URL
	cfg.Upstream.Origin = "https://alison.example"
	cfg.Upstream.SessionYear = "2024"
	cfg.Upstream.SessionType = "2024 Regular Session"
	return NewAlisonClient(cfg, zaptest.NewLogger(t), http.DefaultTransport)
}

func decodeQuery(t *testing.T, r *http.Request) string {
	var req graphqlRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req.Query
}

func TestFetchPageLegacySchema(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "https://alison.example", r.Header.Get("Origin"))
		q := decodeQuery(t, r)
		assert.Contains(t, q, `limit:"25"`)
		assert.Contains(t, q, `offset:"50"`)
		assert.Contains(t, q, `sessionType:"2024 Regular Session"`)

		w.Write([]byte(`{"data":{"allInstrumentOverviews":[
			{"InstrumentNbr":"HB1","InstrumentSponsor":"Smith","AssignedCommittee":"Judiciary",
			 "PrefiledDate":"01/09/2024","FirstRead":"02/06/2024","CurrentStatus":"Pending",
			 "Subject":"Crimes &amp; Offenses","ShortTitle":"<p>Relating to  theft</p>"}
		]}}`))
	})

	page, err := client.FetchPage(context.Background(), 25, 50)
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Zero(t, page.Total)

	bill := page.Records[0]
	assert.Equal(t, "HB1", bill.Number)
	assert.Equal(t, "2024-01-09", bill.PrefiledDate)
	assert.Equal(t, "2024-02-06", bill.FirstRead)
	assert.Equal(t, "Crimes & Offenses", bill.Subject)
	assert.Equal(t, "Relating to theft", bill.ShortTitle)
}

func TestFetchPageEnvelopeSchema(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"allInstrumentOverviews":{"count":120,"data":[
			{"instrumentNbr":"sb7","instrumentSponsor":"Jones","prefiledDate":"2024-01-10","currentStatus":"Passed"}
		]}}}`))
	})

	page, err := client.FetchPage(context.Background(), 25, 0)
	require.NoError(t, err)
	assert.Equal(t, 120, page.Total)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "SB7", page.Records[0].Number)
	assert.Equal(t, "Jones", page.Records[0].Sponsor)
	assert.Equal(t, "2024-01-10", page.Records[0].PrefiledDate)
}

func TestFetchPageErrors(t *testing.T) {
	t.Run("non-success status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := client.FetchPage(context.Background(), 25, 0)
		assert.Error(t, err)
	})

	t.Run("graphql errors", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":null,"errors":[{"message":"bad session"}]}`))
		})
		_, err := client.FetchPage(context.Background(), 25, 0)
		assert.ErrorContains(t, err, "bad session")
	})
}

func TestFetchMeetings(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(decodeQuery(t, r), "{allMeetings("))
		w.Write([]byte(`{"data":{"allMeetings":[
			{"ID":991,"Committee":"Judiciary","Body":"House","PublicHearing":"Y","MeetingTitle":"Regular",
			 "Location":"Room 200","MeetingDate":"02/07/2024","MeetingTime":"1:30 PM",
			 "AgendaItems":[{"InstrumentNbr":"HB1"},{"InstrumentNbr":" sb2 "},{"InstrumentNbr":""}]},
			{"ID":"992","Committee":"Health","PublicHearing":false,"MeetingDate":"TBD"}
		]}}`))
	})

	meetings, err := client.FetchMeetings(context.Background())
	require.NoError(t, err)
	require.Len(t, meetings, 2)

	assert.Equal(t, "991", meetings[0].ID)
	assert.True(t, meetings[0].PublicHearing)
	assert.Equal(t, "2024-02-07T13:30:00", meetings[0].StartsAt)
	assert.Equal(t, []string{"HB1", "SB2"}, meetings[0].Agenda)

	assert.Equal(t, "992", meetings[1].ID)
	assert.False(t, meetings[1].PublicHearing)
	assert.Equal(t, "TBD", meetings[1].StartsAt)
	assert.Empty(t, meetings[1].Agenda)
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2024-01-09", NormalizeDate("01/09/2024"))
	assert.Equal(t, "2024-01-09", NormalizeDate("1/9/2024"))
	assert.Equal(t, "2024-01-09", NormalizeDate(" 2024-01-09 "))
	assert.Equal(t, "2024-01-09", NormalizeDate("2024-01-09T00:00:00"))
	assert.Equal(t, "", NormalizeDate(""))
	assert.Equal(t, "sometime", NormalizeDate("sometime"))
}

func TestMeetingStart(t *testing.T) {
	assert.Equal(t, "2024-02-07T13:30:00", MeetingStart("2024-02-07", "13:30"))
	assert.Equal(t, "2024-02-07T09:00:00", MeetingStart("02/07/2024", "9:00 am"))
	assert.Equal(t, "2024-02-07", MeetingStart("02/07/2024", "upon adjournment"))
	assert.Equal(t, "TBD 10:00", MeetingStart("TBD", "10:00"))
}
