package orders

import "messagelib"

type Order struct{}

type Unbound struct{}

type Alias = Order

const nope = "/nope"

func use(m *messagelib.Message[Order], v messagelib.Message[Order], u *messagelib.Message[Unbound]) {
	m.GetString("/id")
	m.GetString("/nope")           // want `unknown property nope`
	m.GetString("/total")          // want `property is not a string`
	m.GetString(`/customer/name`)
	m.GetString("/customer/email") // want `unknown property email`
	v.GetString("/customer/x")     // want `unknown property x`
	v.GetString("/lines/0/sku")

	m.Get("/nope")
	m.GetString(nope)
	m.GetString("/n" + "ope")
	messagelib.GetString("/nope")
	u.GetString("/nope")

	var a *messagelib.Message[Alias]
	a.GetString("/nope") // want `unknown property nope`

	func() {
		type Local struct{}
		var l *messagelib.Message[Local]
		l.GetString("/id")
		l.GetString("/nope") // want `unknown property nope`
	}()
}

type Handler struct{}

func (h *Handler) Handle() {
	type Event struct{}
	var e messagelib.Message[Event]
	e.GetString("/kind")
	e.GetString("/type") // want `unknown property type`
}
