package docs

// Generated is never loaded.
type Generated struct{}
