package types

const IntentActionAuthorize = "oauth2.authorize"

// Intent asks the host to perform an external action on the program's behalf,
// usually opening a consent page in the browser.
type Intent struct {
	Action  string `json:"action"`
	URL     string `json:"url"`
	Account string `json:"account,omitempty"`
	State   string `json:"state,omitempty"`
}
