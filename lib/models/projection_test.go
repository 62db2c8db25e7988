package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectMeetings(t *testing.T) {
	meetings := []RawMeeting{
		{ID: "1", Committee: "Judiciary", StartsAt: "2024-02-07T13:30:00", Agenda: []string{"HB1", "SB9"}},
		{ID: "2", Committee: "Health", Agenda: []string{"HB2"}},
	}

	t.Run("tenants only see meetings for bills they track", func(t *testing.T) {
		a := ProjectMeetings(meetings, map[string]bool{"HB1": true})
		b := ProjectMeetings(meetings, map[string]bool{"HB2": true})

		assert.Len(t, a, 1)
		assert.Equal(t, "Judiciary", a["HB1"].Committee)
		assert.NotContains(t, b, "HB1")
		assert.Equal(t, "Health", b["HB2"].Committee)
	})

	t.Run("one meeting yields one record per tracked agenda item", func(t *testing.T) {
		snap := ProjectMeetings(meetings, map[string]bool{"HB1": true, "SB9": true})
		assert.Len(t, snap, 2)
		assert.Equal(t, "SB9", snap["SB9"].Identity())
		assert.Equal(t, snap["HB1"].StartsAt, snap["SB9"].StartsAt)
	})

	t.Run("later meetings overwrite earlier ones", func(t *testing.T) {
		dup := append(meetings, RawMeeting{ID: "3", Committee: "Rules", Agenda: []string{"HB1"}})
		snap := ProjectMeetings(dup, map[string]bool{"HB1": true})
		assert.Equal(t, "Rules", snap["HB1"].Committee)
	})

	t.Run("no tracked bills means no meetings", func(t *testing.T) {
		assert.Empty(t, ProjectMeetings(meetings, nil))
	})
}

func TestTenantEligible(t *testing.T) {
	prod := Tenant{Enabled: true}
	dev := Tenant{Enabled: true, DevMode: true}
	off := Tenant{Enabled: false}

	assert.True(t, prod.Eligible(false))
	assert.False(t, prod.Eligible(true))
	assert.True(t, dev.Eligible(true))
	assert.False(t, dev.Eligible(false))
	assert.False(t, off.Eligible(false))
}

func TestTenantTarget(t *testing.T) {
	tenant := Tenant{ChannelID: "42"}
	assert.Equal(t, Target{Platform: "discord", Address: "42"}, tenant.Target())

	tenant.Platform = "email"
	assert.Equal(t, "email", tenant.Target().Platform)
}
