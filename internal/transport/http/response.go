package httptransport

import "github.com/gin-gonic/gin"

// Problem is the error response body for configuration and upstream
// failures, mirroring the problem-details title/detail/status triple.
type Problem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}

// RespondProblem writes a Problem with the given HTTP status.
func RespondProblem(c *gin.Context, status int, title, detail string) {
	c.JSON(status, Problem{
		Title:  title,
		Detail: detail,
		Status: status,
	})
}

// RespondText writes a plain-text client error, used for upload validation
// failures where the frontend shows the message verbatim.
func RespondText(c *gin.Context, status int, message string) {
	c.String(status, message)
}
