// Package render turns new and changed records into chat messages.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/fiffu/billwatch/config"
	"github.com/fiffu/billwatch/lib/diff"
	"github.com/fiffu/billwatch/lib/models"
	"github.com/fiffu/billwatch/lib/textutil"
)

const (
	BillNoun    = "Bill"
	MeetingNoun = "Meeting"

	interestMarker = ":rotating_light:"
)

type Renderer struct {
	session      string
	linkTemplate string
	loc          *time.Location
	truncateAt   int
}

func NewRenderer(cfg *config.Config) (*Renderer, error) {
	loc, err := time.LoadLocation(cfg.Render.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid RENDER_TIMEZONE: %w", err)
	}
	return New(cfg.Render.Session, cfg.Render.BillLinkTemplate, loc, cfg.Render.TruncateAt), nil
}

func New(session, linkTemplate string, loc *time.Location, truncateAt int) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{session, linkTemplate, loc, truncateAt}
}

func header(noun string, changed, interest bool) string {
	verb := "New"
	if changed {
		verb = "Changed"
	}
	if interest {
		return fmt.Sprintf("# %s %s %s of Interest %s", interestMarker, verb, noun, interestMarker)
	}
	return fmt.Sprintf("# %s %s", verb, noun)
}

// RenderNew lists every field of a record that was not seen before.
func (r *Renderer) RenderNew(noun string, rec models.Record, fields models.FieldSet, interest bool) string {
	lines := []string{header(noun, false, interest)}
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf(" - **%s**: %s", f.Label, r.display(f, rec.Value(f.Key))))
	}
	return strings.Join(lines, "\n")
}

// RenderChanged lists the previous and new value of every differing field.
// It reports false when no field in the set differs.
func (r *Renderer) RenderChanged(noun string, old, new models.Record, fields models.FieldSet, interest bool) (bool, string) {
	changes := diff.Compare(old, new, fields)
	if len(changes) == 0 {
		return false, ""
	}

	lines := []string{header(noun, true, interest)}
	if len(fields) > 0 {
		lines = append(lines, fmt.Sprintf(" - **%s**: %s", fields[0].Label, new.Identity()))
	}
	for _, c := range changes {
		lines = append(lines,
			fmt.Sprintf(" - **Previous %s**: %s", c.Field.Label, r.display(c.Field, c.Old)),
			fmt.Sprintf(" - **New %s**: %s", c.Field.Label, r.display(c.Field, c.New)),
		)
	}
	return true, strings.Join(lines, "\n")
}

func (r *Renderer) RenderNewBill(b models.Bill, interest bool) string {
	return r.RenderNew(BillNoun, b, models.BillFields, interest) + "\n" +
		"[Link to initial Bill Text](" + r.BillLink(b.Number) + ") (Note: Bill text may take some time before available)"
}

func (r *Renderer) RenderChangedBill(old, new models.Bill, interest bool) (bool, string) {
	return r.RenderChanged(BillNoun, old, new, models.BillFields, interest)
}

func (r *Renderer) RenderNewMeeting(m models.Meeting, interest bool) string {
	return r.RenderNew(MeetingNoun, m, models.MeetingFields, interest)
}

func (r *Renderer) RenderChangedMeeting(old, new models.Meeting, interest bool) (bool, string) {
	return r.RenderChanged(MeetingNoun, old, new, models.MeetingFields, interest)
}

// BillLink is the introduced-text document for a bill in the configured
// session.
func (r *Renderer) BillLink(number string) string {
	return strings.NewReplacer("{session}", r.session, "{bill}", number).Replace(r.linkTemplate)
}

func (r *Renderer) display(f models.Field, value string) string {
	if value == "" {
		return models.Unknown
	}
	switch f.Kind {
	case models.DateField:
		return r.dateMarker(value)
	case models.DateTimeField:
		return r.dateTimeMarker(value)
	case models.LongTextField:
		return textutil.Truncate(value, r.truncateAt)
	}
	return value
}
