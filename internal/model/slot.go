package model

// RawSlot свободный слот как его отдаёт API клиники
type RawSlot struct {
	StartTime string `json:"startTime"`
}
