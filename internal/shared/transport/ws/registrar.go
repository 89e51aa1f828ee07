package ws

// Registrar is implemented by modules that expose websocket routes.
type Registrar interface {
	WsRegister(r *Router)
}
