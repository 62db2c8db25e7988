package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/fiffu/billwatch/config"
	"github.com/fiffu/billwatch/lib/models"
	"github.com/fiffu/billwatch/lib/textutil"
	"go.uber.org/zap"
)

const instrumentsQuery = `{allInstrumentOverviews(instrumentType:"B", instrumentNbr:"", body:"", sessionYear:%q, sessionType:%q, assignedCommittee:"", status:"", currentStatus:"", subject:"", instrumentSponsor:"", companionInstrumentNbr:"", effectiveDateCertain:"", effectiveDateOther:"", firstReadSecondBody:"", secondReadSecondBody:"", direction:"ASC" orderBy:"InstrumentNbr" limit:"%d" offset:"%d" search:"" customFilters: {} companionReport:"", ){ ID,SessionYear,InstrumentNbr,InstrumentSponsor,SessionType,Body,Subject,ShortTitle,AssignedCommittee,PrefiledDate,FirstRead,CurrentStatus,LastAction,ActSummary,ViewEnacted,CompanionInstrumentNbr,EffectiveDateCertain,EffectiveDateOther,InstrumentType }}`

const meetingsQuery = `{allMeetings(sessionYear:%q, sessionType:%q, direction:"ASC" orderBy:"MeetingDate"){ ID,Committee,Body,PublicHearing,MeetingTitle,Location,MeetingDate,MeetingTime,AgendaItems{ InstrumentNbr } }}`

// AlisonClient talks to the legislature's ALISON GraphQL endpoint and maps
// its responses onto the canonical models.
type AlisonClient struct {
	log       *zap.Logger
	transport http.RoundTripper

	endpoint    string
	origin      string
	sessionYear string
	sessionType string
}

func NewAlisonClient(cfg *config.Config, log *zap.Logger, transport http.RoundTripper) *AlisonClient {
	return &AlisonClient{
		log, transport,
		cfg.Upstream.Endpoint, cfg.Upstream.Origin, cfg.Upstream.SessionYear, cfg.Upstream.SessionType,
	}
}

type graphqlRequest struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName"`
	Variables     []any  `json:"variables"`
}

type graphqlResponse struct {
	Data   any `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *AlisonClient) query(ctx context.Context, query string, out any) error {
	resp := graphqlResponse{Data: out}
	err := requests.URL(c.endpoint).
		Transport(c.transport).
		Post().
		BodyJSON(&graphqlRequest{Query: query, Variables: []any{}}).
		Header("Authorization", "Bearer undefined").
		Header("Accept", "*/*").
		Header("Origin", c.origin).
		Header("Referer", c.origin+"/").
		ToJSON(&resp).
		Fetch(ctx)
	if err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			msgs[i] = e.Message
		}
		return fmt.Errorf("graphql: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func (c *AlisonClient) FetchPage(ctx context.Context, limit, offset int) (*Page, error) {
	var data struct {
		Instruments instrumentList `json:"allInstrumentOverviews"`
	}
	q := fmt.Sprintf(instrumentsQuery, c.sessionYear, c.sessionType, limit, offset)
	if err := c.query(ctx, q, &data); err != nil {
		return nil, err
	}

	page := &Page{Total: data.Instruments.Total}
	for _, raw := range data.Instruments.Records {
		page.Records = append(page.Records, raw.canonical())
	}
	return page, nil
}

func (c *AlisonClient) FetchMeetings(ctx context.Context) ([]models.RawMeeting, error) {
	var data struct {
		Meetings []rawMeeting `json:"allMeetings"`
	}
	q := fmt.Sprintf(meetingsQuery, c.sessionYear, c.sessionType)
	if err := c.query(ctx, q, &data); err != nil {
		return nil, fmt.Errorf("fetch meetings: %w", err)
	}

	meetings := make([]models.RawMeeting, 0, len(data.Meetings))
	for _, raw := range data.Meetings {
		meetings = append(meetings, raw.canonical())
	}
	return meetings, nil
}

// instrumentList accepts both the legacy bare array and the newer
// {count, data} envelope.
type instrumentList struct {
	Records []rawInstrument
	Total   int
}

func (l *instrumentList) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &l.Records)
	}

	var envelope struct {
		Count int             `json:"count"`
		Data  []rawInstrument `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	l.Records, l.Total = envelope.Data, envelope.Count
	return nil
}

// Field names match case-insensitively, so these tags also decode the
// lowerCamel schema.
type rawInstrument struct {
	InstrumentNbr     string `json:"InstrumentNbr"`
	InstrumentSponsor string `json:"InstrumentSponsor"`
	AssignedCommittee string `json:"AssignedCommittee"`
	PrefiledDate      string `json:"PrefiledDate"`
	FirstRead         string `json:"FirstRead"`
	CurrentStatus     string `json:"CurrentStatus"`
	Subject           string `json:"Subject"`
	ShortTitle        string `json:"ShortTitle"`
}

func (r rawInstrument) canonical() models.Bill {
	return models.Bill{
		Number:        strings.ToUpper(strings.TrimSpace(r.InstrumentNbr)),
		Sponsor:       textutil.PlainText(r.InstrumentSponsor),
		Committee:     textutil.PlainText(r.AssignedCommittee),
		PrefiledDate:  NormalizeDate(r.PrefiledDate),
		FirstRead:     NormalizeDate(r.FirstRead),
		CurrentStatus: textutil.PlainText(r.CurrentStatus),
		Subject:       textutil.PlainText(r.Subject),
		ShortTitle:    textutil.PlainText(r.ShortTitle),
	}
}

type rawMeeting struct {
	ID            json.RawMessage `json:"ID"`
	Committee     string          `json:"Committee"`
	Body          string          `json:"Body"`
	PublicHearing flexBool        `json:"PublicHearing"`
	MeetingTitle  string          `json:"MeetingTitle"`
	Location      string          `json:"Location"`
	MeetingDate   string          `json:"MeetingDate"`
	MeetingTime   string          `json:"MeetingTime"`
	AgendaItems   []struct {
		InstrumentNbr string `json:"InstrumentNbr"`
	} `json:"AgendaItems"`
}

func (r rawMeeting) canonical() models.RawMeeting {
	m := models.RawMeeting{
		ID:            strings.Trim(string(r.ID), `"`),
		Committee:     textutil.PlainText(r.Committee),
		Body:          textutil.PlainText(r.Body),
		PublicHearing: bool(r.PublicHearing),
		Title:         textutil.PlainText(r.MeetingTitle),
		Location:      textutil.PlainText(r.Location),
		StartsAt:      MeetingStart(r.MeetingDate, r.MeetingTime),
	}
	for _, item := range r.AgendaItems {
		if nbr := strings.ToUpper(strings.TrimSpace(item.InstrumentNbr)); nbr != "" {
			m.Agenda = append(m.Agenda, nbr)
		}
	}
	return m
}

// flexBool decodes true/false as well as the "Y"/"N" strings some upstream
// schema versions use.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
		*f = false
	case bool:
		*f = flexBool(v)
	case float64:
		*f = v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "y", "yes", "true", "1":
			*f = true
		default:
			*f = false
		}
	default:
		return errors.New("unsupported boolean value: " + string(b))
	}
	return nil
}

const canonicalDate = "2006-01-02"

var dateLayouts = []string{canonicalDate, "01/02/2006", "1/2/2006", "2006-01-02T15:04:05", time.RFC3339}

// NormalizeDate rewrites any known upstream date format as YYYY-MM-DD.
// Unrecognised values are returned trimmed but otherwise untouched.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonicalDate)
		}
	}
	return s
}

var clockLayouts = []string{"3:04 PM", "3:04PM", "03:04 PM", "15:04", "15:04:05"}

// MeetingStart combines an upstream date and clock time into
// YYYY-MM-DDTHH:MM:SS. A missing or unparseable clock yields just the date;
// an unparseable date yields the raw values joined by a space.
func MeetingStart(date, clock string) string {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	day := NormalizeDate(date)
	if _, err := time.Parse(canonicalDate, day); err != nil {
		return strings.TrimSpace(date + " " + clock)
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(clock)); err == nil {
			return day + "T" + t.Format("15:04:05")
		}
	}
	return day
}
