package schema

const (
	EventBucket     = "market-events"
	EventMetaBucket = "market-events-meta"
)

// RespErr is the API error body.
type RespErr struct {
	Err string `json:"error"`
}

func (r RespErr) Error() string {
	return r.Err
}
