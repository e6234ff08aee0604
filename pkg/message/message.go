// Package message defines the outbound renderables the engine produces.
// The engine never calls the chat transport directly; it only returns
// these values, and the channel adapter renders them for the wire.
package message

// Kind discriminates the renderable union.
type Kind string

const (
	KindText   Kind = "text"
	KindButton Kind = "button"
	KindList   Kind = "list"
)

// Renderable is one outbound message of any kind. Exactly one of the
// payload fields matching Kind is set.
type Renderable struct {
	Kind   Kind          `json:"kind"`
	Text   *Text         `json:"text,omitempty"`
	Button *ButtonPrompt `json:"button,omitempty"`
	List   *ListPrompt   `json:"list,omitempty"`
}

// Text is a plain message body.
type Text struct {
	Body string `json:"body"`
}

// ButtonPrompt is a yes/no confirmation with reply button ids.
type ButtonPrompt struct {
	Body   string `json:"body"`
	YesID  string `json:"yes_id"`
	NoID   string `json:"no_id"`
	Footer string `json:"footer,omitempty"`
}

// ListPrompt is a sectioned selectable list keyed by row id.
type ListPrompt struct {
	Header   string    `json:"header"`
	Body     string    `json:"body"`
	Button   string    `json:"button,omitempty"`
	Footer   string    `json:"footer,omitempty"`
	Sections []Section `json:"sections"`
}

// Section groups rows under a title.
type Section struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// Row is one selectable entry.
type Row struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// NewText wraps a body as a text renderable.
func NewText(body string) Renderable {
	return Renderable{Kind: KindText, Text: &Text{Body: body}}
}

// NewButtons wraps a confirmation prompt.
func NewButtons(body, yesID, noID, footer string) Renderable {
	return Renderable{Kind: KindButton, Button: &ButtonPrompt{
		Body:   body,
		YesID:  yesID,
		NoID:   noID,
		Footer: footer,
	}}
}

// NewList wraps a selectable list.
func NewList(list ListPrompt) Renderable {
	return Renderable{Kind: KindList, List: &list}
}
