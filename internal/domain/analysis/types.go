package analysis

// DefaultQuestion is used when the upload carries no question text.
const DefaultQuestion = "Describe this image."

// DefaultMimeType is assumed when the upload declares no content type and
// the filename gives no hint.
const DefaultMimeType = "image/png"

// Request is the normalized inbound analysis request. All fields are
// request-scoped; nothing is retained after the response is written.
type Request struct {
	Image    []byte
	MimeType string
	Question string
	FileName string
}

// Result is the uniform response shape regardless of which backend served
// the request. Note is "mock" only when a live call degraded to the mock
// answer after quota exhaustion.
type Result struct {
	Answer string `json:"answer"`
	Note   string `json:"note,omitempty"`
}
