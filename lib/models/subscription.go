package models

import "slices"

// Tenant is one subscriber: a delivery target plus its tracked bills.
type Tenant struct {
	ServerID        string   `json:"server_id"`
	ChannelID       string   `json:"channel_id"`
	Platform        string   `json:"platform,omitempty"`
	Enabled         bool     `json:"enabled"`
	DevMode         bool     `json:"dev_mode"`
	MOTDVersion     int      `json:"motd_version"`
	BillsOfInterest []string `json:"bills-of-interest"`
}

type Tenants []Tenant

func (t *Tenant) Target() Target {
	platform := t.Platform
	if platform == "" {
		platform = DefaultPlatform
	}
	return Target{Platform: platform, Address: t.ChannelID}
}

func (t *Tenant) Tracks(bill string) bool {
	return slices.Contains(t.BillsOfInterest, bill)
}

// Tracked returns the tracked identities as a set.
func (t *Tenant) Tracked() map[string]bool {
	set := make(map[string]bool, len(t.BillsOfInterest))
	for _, b := range t.BillsOfInterest {
		set[b] = true
	}
	return set
}

// Eligible reports whether the tenant should be processed by a service
// running in the given mode.
func (t *Tenant) Eligible(development bool) bool {
	return t.Enabled && t.DevMode == development
}

// Refs returns pointers into the slice.
func (ts Tenants) Refs() []*Tenant {
	out := make([]*Tenant, len(ts))
	for i := range ts {
		out[i] = &ts[i]
	}
	return out
}
