package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ViewEnvelope wraps every rendered view state. Notifications carries the
// toasts still active for the client at render time. Error is set when the
// action that produced the view failed; the state is still the current one.
type ViewEnvelope struct {
	View          string    `json:"view"`
	Data          any       `json:"data"`
	Notifications any       `json:"notifications,omitempty"`
	Error         *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
