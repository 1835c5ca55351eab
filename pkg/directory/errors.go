package directory

// Error describes a failed directory API exchange. Its message carries the
// HTTP method, the full URL and, for writes, a JSON dump of the request
// body, so operators can replay the exchange from logs alone.
type Error struct {
	msg string
}

func (e *Error) Error() string {
	return e.msg
}
