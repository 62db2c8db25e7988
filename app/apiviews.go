package app

import (
	"github.com/fiffu/billwatch/lib/models"
)

// ReplyView carries the confirmation text of a command.
type ReplyView struct {
	ServerID string `json:"server_id"`
	Text     string `json:"text"`
}

type TenantView struct {
	ServerID    string     `json:"server_id"`
	Target      TargetView `json:"target"`
	Enabled     bool       `json:"enabled"`
	DevMode     bool       `json:"dev_mode"`
	MOTDVersion int        `json:"motd_version"`
	Tracked     []string   `json:"bills_of_interest"`
}

type TargetView struct {
	Platform string `json:"platform"`
	Address  string `json:"address"`
}

func (view TargetView) From(entity models.Target) TargetView {
	return TargetView{
		Platform: entity.Platform,
		Address:  entity.Address,
	}
}

func (view TenantView) From(entity *models.Tenant) TenantView {
	tracked := entity.BillsOfInterest
	if tracked == nil {
		tracked = []string{}
	}
	return TenantView{
		ServerID:    entity.ServerID,
		Target:      TargetView{}.From(entity.Target()),
		Enabled:     entity.Enabled,
		DevMode:     entity.DevMode,
		MOTDVersion: entity.MOTDVersion,
		Tracked:     tracked,
	}
}

type Fromable[Entity any, Repr any] interface {
	From(Entity) Repr
}

func FromMany[T any, U Fromable[T, U]](elems []T) []U {
	out := make([]U, len(elems))
	for i, t := range elems {
		var u U
		out[i] = u.From(t)
	}
	return out
}
