package llm

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// PartType tags a typed content part.
type PartType string

const (
	PartText     PartType = "text"
	PartImageURL PartType = "image_url"
)

// ContentPart is one element of a multi-part message. Text is set for
// PartText, ImageURL (an http(s) URL or a data URI) for PartImageURL.
type ContentPart struct {
	Type     PartType
	Text     string
	ImageURL string
}

// Message is a single chat message. When Parts is non-empty it carries the
// content and Content is ignored.
type Message struct {
	Role    Role
	Content string
	Parts   []ContentPart
}

// TextPart builds a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

// ImagePart builds an image reference content part.
func ImagePart(url string) ContentPart {
	return ContentPart{Type: PartImageURL, ImageURL: url}
}

// Usage is the token accounting reported for one request/response exchange.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
