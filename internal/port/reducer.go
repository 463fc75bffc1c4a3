package port

// Reducer transforms one document's HTML.
type Reducer interface {
	Reduce(html string) (string, error)

	// Fingerprint identifies the reducer's configuration.
	Fingerprint() string
}

// ScriptReducer transforms one navigation script.
type ScriptReducer interface {
	ReduceScript(js string) string
}
