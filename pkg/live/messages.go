package live

// Message types.
const (
	TypeEvent  = "event"
	TypeRender = "render"
	TypeError  = "error"
	TypeReload = "reload"
)

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type  string  `json:"type"`
	HID   string  `json:"hid,omitempty"`
	Event string  `json:"event,omitempty"`
	Value *string `json:"value,omitempty"`
}

// ServerMessage is sent to the browser.
type ServerMessage struct {
	Type    string `json:"type"`
	HTML    string `json:"html,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
