package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod  = "method"
	AttrPath    = "path"
	AttrStatus  = "status"
	AttrCommand = "command"
	AttrOutcome = "outcome"
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
