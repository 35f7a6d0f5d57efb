package logging

import "time"

// Generic field constructors

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Float64 creates a float64 field
func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

// Error creates an error field
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Latency creates a duration field in milliseconds
func Latency(d time.Duration) Field {
	return Field{Key: "latency_ms", Value: d.Milliseconds()}
}

// Domain field constructors

// WayID identifies the source way of a restriction or edge
func WayID(id int64) Field {
	return Field{Key: "way_id", Value: id}
}

// NodeID identifies a graph node
func NodeID(id int64) Field {
	return Field{Key: "node_id", Value: id}
}

// TagKey identifies a conditional tag key
func TagKey(key string) Field {
	return Field{Key: "tag_key", Value: key}
}

// Profile identifies the vehicle profile of a query
func Profile(name string) Field {
	return Field{Key: "profile", Value: name}
}

// Nodes records a node count
func Nodes(n int) Field {
	return Field{Key: "nodes", Value: n}
}

// Edges records an edge count
func Edges(n int) Field {
	return Field{Key: "edges", Value: n}
}

// Restrictions records a restriction count
func Restrictions(n int) Field {
	return Field{Key: "restrictions", Value: n}
}
