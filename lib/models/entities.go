package models

// Bill is the canonical form of an upstream instrument. Empty strings mean
// the upstream did not report the field.
type Bill struct {
	Number        string `json:"instrumentNbr"`
	Sponsor       string `json:"instrumentSponsor"`
	Committee     string `json:"assignedCommittee"`
	PrefiledDate  string `json:"prefiledDate"`
	FirstRead     string `json:"firstRead"`
	CurrentStatus string `json:"currentStatus"`
	Subject       string `json:"subject"`
	ShortTitle    string `json:"shortTitle"`
}

func (b Bill) Identity() string { return b.Number }

func (b Bill) Value(key string) string {
	switch key {
	case "instrumentNbr":
		return b.Number
	case "instrumentSponsor":
		return b.Sponsor
	case "assignedCommittee":
		return b.Committee
	case "prefiledDate":
		return b.PrefiledDate
	case "firstRead":
		return b.FirstRead
	case "currentStatus":
		return b.CurrentStatus
	case "subject":
		return b.Subject
	case "shortTitle":
		return b.ShortTitle
	}
	return ""
}

// Meeting is one (meeting, bill) agenda association as seen by a tenant.
type Meeting struct {
	Bill          string `json:"instrumentNbr"`
	Committee     string `json:"committee"`
	Body          string `json:"body"`
	PublicHearing bool   `json:"publicHearing"`
	Title         string `json:"title"`
	Location      string `json:"location"`
	StartsAt      string `json:"startsAt"` // YYYY-MM-DDTHH:MM:SS, legislature local time
}

func (m Meeting) Identity() string { return m.Bill }

func (m Meeting) Value(key string) string {
	switch key {
	case "instrumentNbr":
		return m.Bill
	case "committee":
		return m.Committee
	case "body":
		return m.Body
	case "publicHearing":
		if m.PublicHearing {
			return "Yes"
		}
		return "No"
	case "title":
		return m.Title
	case "location":
		return m.Location
	case "startsAt":
		return m.StartsAt
	}
	return ""
}

// RawMeeting is a meeting as listed upstream, before tenant projection.
type RawMeeting struct {
	ID            string
	Committee     string
	Body          string
	PublicHearing bool
	Title         string
	Location      string
	StartsAt      string
	Agenda        []string // bill identities
}

// Join produces the Meeting record for one of the meeting's agenda items.
func (rm RawMeeting) Join(bill string) Meeting {
	return Meeting{
		Bill:          bill,
		Committee:     rm.Committee,
		Body:          rm.Body,
		PublicHearing: rm.PublicHearing,
		Title:         rm.Title,
		Location:      rm.Location,
		StartsAt:      rm.StartsAt,
	}
}
