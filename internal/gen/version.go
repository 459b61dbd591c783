package gen

// Version of core-jsonschema.
const Version = "v0.1.0"
