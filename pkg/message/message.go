// Package message provides the runtime message type whose field-path call
// sites are checked by the msgpath analyzer.
//
// A type opts in by naming its schema file in a directive:
//
//	//msgschema:file "schemas/order.json"
//	type Order struct{}
//
//	msg, _ := message.Parse[Order](data)
//	id, ok := msg.GetString("/order/id")
package message

import (
	"encoding/json"
	"fmt"

	"github.com/afossey/message-schema-plugin/pkg/pointer"
)

const (
	// SchemaFileDirective binds a type declaration to a schema file.
	SchemaFileDirective = "msgschema:file"
	// GetStringMethod is the accessor whose literal argument is checked.
	GetStringMethod = "GetString"
	// MessageTypeName is the qualified name of Message.
	MessageTypeName = "github.com/afossey/message-schema-plugin/pkg/message.Message"
)

// Message is a decoded JSON document whose shape is described by the schema
// bound to T.
type Message[T any] struct {
	doc any
}

// Parse decodes data as a message of type T.
func Parse[T any](data []byte) (*Message[T], error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding message: %w", err)
	}
	return &Message[T]{doc: doc}, nil
}

// New wraps an already decoded document.
func New[T any](doc any) *Message[T] {
	return &Message[T]{doc: doc}
}

// Document returns the decoded document.
func (m *Message[T]) Document() any { return m.doc }

// Get returns the value at the JSON Pointer ptr.
func (m *Message[T]) Get(ptr string) (any, bool) {
	return Lookup(m.doc, pointer.Parse(ptr))
}

// GetString returns the string at the JSON Pointer ptr. It reports false
// when the location is missing or holds another type.
func (m *Message[T]) GetString(ptr string) (string, bool) {
	v, ok := m.Get(ptr)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// MarshalJSON encodes the underlying document.
func (m *Message[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.doc)
}

// UnmarshalJSON decodes data into the message.
func (m *Message[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &m.doc)
}
