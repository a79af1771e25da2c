package engine

import "time"

// Kind discriminates the variants of Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt64
	KindFloat64
	KindString
	KindBytes
	KindDate
	KindTimestamp
	KindList
	KindMap
	KindNode
	KindRel
	KindPath
)

// Value is the row-shape sum type the embedded engine's rows are converted
// into at the boundary, per the design notes: callers pattern-match Kind
// instead of type-switching on interface{} shapes that vary by driver.
type Value struct {
	Kind  Kind
	Bool  bool
	Int64 int64
	// Float64Val carries the float payload; named distinctly so the zero
	// Value doesn't alias Int64's zero in numeric comparisons.
	Float64Val float64
	Str        string
	Bytes      []byte
	// TimestampNs is epoch-nanoseconds for Date and Timestamp kinds.
	TimestampNs int64
	List        []Value
	Map         map[string]Value
	Node        *NodeValue
	Rel         *RelValue
	Path        *PathValue
}

// NodeValue is a graph node: its label and its property map.
type NodeValue struct {
	Label string
	Props map[string]Value
}

// RelValue is a graph relationship: its label, endpoints and property map.
type RelValue struct {
	Label string
	From  string
	To    string
	Props map[string]Value
}

// PathValue is a sequence of nodes and the relationships connecting them.
type PathValue struct {
	Nodes []NodeValue
	Rels  []RelValue
}

func Null() Value                { return Value{Kind: KindNull} }
func FromString(s string) Value  { return Value{Kind: KindString, Str: s} }
func FromInt64(i int64) Value    { return Value{Kind: KindInt64, Int64: i} }
func FromFloat64(f float64) Value { return Value{Kind: KindFloat64, Float64Val: f} }
func FromBool(b bool) Value       { return Value{Kind: KindBool, Bool: b} }
func FromTimestamp(t time.Time) Value {
	return Value{Kind: KindTimestamp, TimestampNs: t.UTC().UnixNano()}
}

// IsNull reports whether v is the null variant.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsString returns the string payload of a String-kind Value, or "" for any
// other kind (including Null) — used by converters that tolerate loose
// typing from the underlying driver.
func (v Value) AsString() string {
	if v.Kind == KindString {
		return v.Str
	}
	return ""
}

// AsTime converts a Timestamp/Date Value back to time.Time; zero value for
// any other kind. Timestamps stored as epoch-nanosecond integers (this
// engine's encoding) are also accepted, since the driver returns them as
// plain Int64 rather than time.Time.
func (v Value) AsTime() time.Time {
	switch v.Kind {
	case KindTimestamp, KindDate:
		return time.Unix(0, v.TimestampNs).UTC()
	case KindInt64:
		return time.Unix(0, v.Int64).UTC()
	default:
		return time.Time{}
	}
}

// AsInt64 returns the integer payload of an Int64-kind Value, or 0 for any
// other kind.
func (v Value) AsInt64() int64 {
	if v.Kind == KindInt64 {
		return v.Int64
	}
	return 0
}
