package session

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type QueryStartedEvent struct {
	ID     ulid.ULID
	Query  string
	Params []any
	Sender any
}

type QueryEndedEvent struct {
	ID           ulid.ULID
	Query        string
	Params       []any
	Sender       any
	ResponseTime time.Duration
	Err          error
}
