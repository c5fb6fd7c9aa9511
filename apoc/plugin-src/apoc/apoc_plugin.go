//go:build ignore

// APOC Plugin - Full APOC functions for NornicDB
// This is the main APOC plugin containing all 60+ functions.
// Build with: go build -buildmode=plugin -o apoc.so apoc_plugin.go
package main

import (
	"github.com/orneryd/nornicdb/apoc"
	"github.com/orneryd/nornicdb/apoc/storage"
)

// PluginFunction matches the struct expected by the plugin loader
type PluginFunction struct {
	Handler     interface{}
	Description string
	Examples    []string
}

// APOCPlugin provides all APOC functions
type APOCPlugin struct{}

func (p APOCPlugin) Name() string    { return "apoc" }
func (p APOCPlugin) Version() string { return "1.0.0" }

func (p APOCPlugin) Functions() map[string]PluginFunction {
	// Initialize APOC with nil storage (functions don't need storage)
	apoc.Initialize(storage.NewInMemoryStorage(), nil)

	// Get all registered functions from APOC
	functions := make(map[string]PluginFunction)

	for _, name := range apoc.List() {
		info, ok := apoc.GetInfo(name)
		if !ok {
			continue
		}

		// Strip the "apoc." prefix for the function key since
		// the plugin loader will add "apoc.<pluginname>." prefix
		// Actually, keep the full name for direct mapping
		functions[name] = PluginFunction{
			Handler:     info.Handler,
			Description: info.Description,
			Examples:    info.Examples,
		}
	}

	return functions
}

// Plugin is the exported symbol that NornicDB will load
var Plugin APOCPlugin
