package analyze

// MaxFileSize caps image uploads at 5MB.
const MaxFileSize = 5 * 1024 * 1024

// imageField is the multipart form field carrying the upload.
const imageField = "image"

// questionField is the optional multipart form field with the user's question.
const questionField = "question"
