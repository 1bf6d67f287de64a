package control

import "time"

// Ops understood by the daemon's control socket.
const (
	OpStatus    = "status"
	OpHealth    = "health"
	OpUtterance = "utterance"
)

type Request struct {
	Op   string `json:"op"`
	Text string `json:"text,omitempty"`
}

type Status struct {
	Running   bool    `json:"running"`
	UptimeSec float64 `json:"uptime_sec"`
	Turns     []Turn  `json:"turns"`
}

type SimpleResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Turn is one handled utterance.
type Turn struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Intent    string    `json:"intent"`
	Outcome   string    `json:"outcome"`
	Failure   string    `json:"failure,omitempty"`
	Reply     string    `json:"reply"`
	Timestamp time.Time `json:"timestamp"`
}

// TurnResponse answers an utterance request.
type TurnResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Turn  Turn   `json:"turn"`
	Quit  bool   `json:"quit"`
}
