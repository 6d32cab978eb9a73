package messagelib

type Message[T any] struct{}

func (m *Message[T]) GetString(ptr string) (string, bool) { return "", false }

func (m *Message[T]) Get(ptr string) (any, bool) { return nil, false }

func GetString(ptr string) string { return ptr }
