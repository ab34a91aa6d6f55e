package pipeline

type Request struct {
	Text string `json:"text"`
	Tid  string `json:"tid"`
}

// Pipeline runs one batch request and delivers the rendered results on the
// returned channel. The channel closes without a value when the batch fails.
type Pipeline func(Request) <-chan string
