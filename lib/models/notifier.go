package models

const DefaultPlatform = "discord"

// Target is where a tenant's messages go. Address is platform specific:
// a channel id for discord, a mailbox for email, a subject for nats.
type Target struct {
	Platform string
	Address  string
}
