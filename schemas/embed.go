// Package schemas embeds the JSON Schemas for the resume and persisted state documents.
package schemas

import "embed"

// Schema file names
const (
	ResumeSchema = "resume.schema.json"
	StateSchema  = "state.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Read returns the raw content of an embedded schema.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// Names lists the embedded schema files.
func Names() []string {
	return []string{ResumeSchema, StateSchema}
}
