package plain

import "messagelib"

type Payload struct{}

func use(m *messagelib.Message[Payload]) {
	m.GetString("/anything")
}
