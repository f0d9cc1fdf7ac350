package domain

import "time"

// Target is one monitored node instance. Command is run without a shell.
type Target struct {
	Alias   string   `json:"alias" yaml:"alias"`
	Command []string `json:"command" yaml:"command"`
}

// SubClient identifies one of the four clients a node reports on.
type SubClient int

const (
	PrimaryExecution SubClient = iota
	FallbackExecution
	PrimaryConsensus
	FallbackConsensus

	numSubClients
)

// SubClients lists every kind in reporting order.
var SubClients = [numSubClients]SubClient{
	PrimaryExecution,
	FallbackExecution,
	PrimaryConsensus,
	FallbackConsensus,
}

var subClientNames = [numSubClients]struct{ id, label string }{
	{"primary_execution", "Primary Execution"},
	{"fallback_execution", "Fallback Execution"},
	{"primary_consensus", "Primary Consensus"},
	{"fallback_consensus", "Fallback Consensus"},
}

func (c SubClient) valid() bool { return c >= 0 && c < numSubClients }

func (c SubClient) String() string {
	if !c.valid() {
		return "unknown"
	}
	return subClientNames[c].id
}

// Label is the human readable name used in alert text.
func (c SubClient) Label() string {
	if !c.valid() {
		return "Unknown"
	}
	return subClientNames[c].label
}

// Status holds one observation: true means the client reported fully synced.
type Status [numSubClients]bool

// StatusKey addresses a single tracked boolean.
type StatusKey struct {
	Alias  string    `json:"alias"`
	Client SubClient `json:"client"`
}

func (k StatusKey) String() string { return k.Alias + ":" + k.Client.String() }

// Less orders keys by alias, then by client label.
func (k StatusKey) Less(o StatusKey) bool {
	if k.Alias != o.Alias {
		return k.Alias < o.Alias
	}
	return k.Client.Label() < o.Client.Label()
}

type TransitionKind int

const (
	BecameUnsynced TransitionKind = iota + 1
	BecameSynced
)

func (t TransitionKind) String() string {
	switch t {
	case BecameUnsynced:
		return "became_unsynced"
	case BecameSynced:
		return "became_synced"
	default:
		return "none"
	}
}

// Event is emitted when a tracked client changes sync state.
type Event struct {
	Kind  TransitionKind `json:"kind"`
	Key   StatusKey      `json:"key"`
	At    time.Time      `json:"at"`
	Alert bool           `json:"alert"`
}

// Notification is a composed message and what happened when it was sent.
type Notification struct {
	ID        int64     `json:"id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Delivered bool      `json:"delivered"`
	Error     string    `json:"error,omitempty"`
}
