// Package envelope defines the uniform reply returned by every orchestration path.
package envelope

// Component types understood by the web client.
const (
	ComponentResumeViewer = "ResumeViewer"
	ComponentJobCard      = "JobCard"
	ComponentRankedList   = "RankedList"
	ComponentSkillTags    = "SkillTags"
)

// ActionButton is the only action type the web client renders today.
const ActionButton = "button"

// EmptyReplyMessage replaces a blank message so that no caller ever receives an empty reply.
const EmptyReplyMessage = "I'm sorry, I couldn't generate a response. Please try again."

// Envelope is the {message, ui_components, actions, session_id} reply.
type Envelope struct {
	Message      string      `json:"message"`
	UIComponents []Component `json:"ui_components"`
	Actions      []Action    `json:"actions"`
	SessionID    string      `json:"session_id,omitempty"`
}

// Component is a typed UI directive with an open property bag.
type Component struct {
	Type  string         `json:"type"`
	Props map[string]any `json:"props"`
}

// Action is a suggested follow-up the client renders as a button.
type Action struct {
	Type   string         `json:"type"`
	Label  string         `json:"label"`
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

// New creates an envelope with empty component and action lists.
func New(message string) Envelope {
	return Envelope{
		Message:      message,
		UIComponents: []Component{},
		Actions:      []Action{},
	}
}

// WithComponents appends UI components.
func (e Envelope) WithComponents(c ...Component) Envelope {
	e.UIComponents = append(append([]Component{}, e.UIComponents...), c...)
	return e
}

// WithActions appends actions.
func (e Envelope) WithActions(a ...Action) Envelope {
	e.Actions = append(append([]Action{}, e.Actions...), a...)
	return e
}

// WithSession sets the session id.
func (e Envelope) WithSession(id string) Envelope {
	e.SessionID = id
	return e
}

// NewComponent creates a component; nil props become an empty bag.
func NewComponent(typ string, props map[string]any) Component {
	if props == nil {
		props = map[string]any{}
	}
	return Component{Type: typ, Props: props}
}

// Button creates a button action; nil params become an empty bag.
func Button(label, action string, params map[string]any) Action {
	if params == nil {
		params = map[string]any{}
	}
	return Action{Type: ActionButton, Label: label, Action: action, Params: params}
}

// Normalize returns e with every field well-formed: non-blank message,
// non-nil lists and non-nil property bags.
func Normalize(e Envelope) Envelope {
	out := Envelope{
		Message:      e.Message,
		UIComponents: make([]Component, 0, len(e.UIComponents)),
		Actions:      make([]Action, 0, len(e.Actions)),
		SessionID:    e.SessionID,
	}
	if isBlank(out.Message) {
		out.Message = EmptyReplyMessage
	}
	for _, c := range e.UIComponents {
		if c.Type == "" {
			continue
		}
		out.UIComponents = append(out.UIComponents, NewComponent(c.Type, c.Props))
	}
	for _, a := range e.Actions {
		if a.Action == "" {
			continue
		}
		typ := a.Type
		if typ == "" {
			typ = ActionButton
		}
		params := a.Params
		if params == nil {
			params = map[string]any{}
		}
		out.Actions = append(out.Actions, Action{Type: typ, Label: a.Label, Action: a.Action, Params: params})
	}
	return out
}

func isBlank(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}
