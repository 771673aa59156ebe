package preview

// Message types exchanged with the preview page.
const (
	// Server to page.
	TypeLoad     = "load"
	TypeReveal   = "reveal"
	TypeSettings = "settings"

	// Page to server.
	TypeStarted  = "started"
	TypeFinished = "finished"
	TypeNavigate = "navigate"
)

// Message is the JSON envelope of every websocket frame.
type Message struct {
	Type string `json:"type"`

	// Seq identifies a load. Started and finished messages echo it back.
	Seq     uint64 `json:"seq,omitempty"`
	HTML    string `json:"html,omitempty"`
	BaseURI string `json:"baseURI,omitempty"`

	URI string `json:"uri,omitempty"`

	InterceptLinks      bool `json:"interceptLinks,omitempty"`
	SuppressContextMenu bool `json:"suppressContextMenu,omitempty"`
}
