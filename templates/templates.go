// Package templates holds the HTML pages served by the web interface.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Index is the fare request form
var Index = template.Must(template.ParseFS(files, "index.html"))

// IndexData fills the form's select options
type IndexData struct {
	Classes []string
	Stops   []StopOption
}

// StopOption is one entry of the stops select
type StopOption struct {
	Value string
	Label string
}

// DefaultIndexData lists the classes and stop counts the model was trained on
func DefaultIndexData() IndexData {
	return IndexData{
		Classes: []string{"economy", "business"},
		Stops: []StopOption{
			{Value: "0", Label: "Non-stop"},
			{Value: "1", Label: "1 stop"},
			{Value: "2", Label: "2+ stops"},
		},
	}
}
