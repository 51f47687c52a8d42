package models

// Response envelopes for the flood-report API. Every route answers with
// success=true plus its payload, or success=false plus an error string.

type ErrorResp struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type ReportResp struct {
	Success bool        `json:"success"`
	Report  FloodReport `json:"report"`
}

type ReportListResp struct {
	Success bool          `json:"success"`
	Reports []FloodReport `json:"reports"`
}

type CountResp struct {
	Success bool  `json:"success"`
	Count   int64 `json:"count"`
}

type MessageResp struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ScheduleCountResp mirrors the schedules count payload.
type ScheduleCountResp struct {
	TotalEvents int64 `json:"totalEvents"`
}

// LoginResp carries the signed token plus a client-safe user view.
type LoginResp struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ChatResp is the AI proxy payload.
type ChatResp struct {
	Response string `json:"response"`
}
