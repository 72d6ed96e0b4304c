package health

import "context"

// Response represents the health check response
type Response struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Version  string `json:"version,omitempty"`
	Database string `json:"database"`
}

type PingResponse struct {
	Message string `json:"message"`
}

// anything that can report database reachability; *pgxpool.Pool satisfies it
type Pinger interface {
	Ping(ctx context.Context) error
}
