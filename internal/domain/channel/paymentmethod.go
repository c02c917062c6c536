package channel

// PaymentMethod is a configured payment method handler for a channel. The
// handler arguments carry the gateway credentials and settlement routing
// metadata (api key, redirect base URL).
type PaymentMethod struct {
	id          uint
	channelID   uint
	code        string
	handlerCode string
	args        map[string]string
	enabled     bool
}

func (m *PaymentMethod) ID() uint {
	return m.id
}

func (m *PaymentMethod) ChannelID() uint {
	return m.channelID
}

func (m *PaymentMethod) Code() string {
	return m.code
}

func (m *PaymentMethod) HandlerCode() string {
	return m.handlerCode
}

// Arg returns the named handler argument and whether it is set.
func (m *PaymentMethod) Arg(name string) (string, bool) {
	v, ok := m.args[name]
	return v, ok && v != ""
}

// RawArgs returns a copy of all handler arguments.
func (m *PaymentMethod) RawArgs() map[string]string {
	out := make(map[string]string, len(m.args))
	for k, v := range m.args {
		out[k] = v
	}
	return out
}

func (m *PaymentMethod) Enabled() bool {
	return m.enabled
}

// ReconstructPaymentMethod rebuilds a PaymentMethod from persistence.
func ReconstructPaymentMethod(id, channelID uint, code, handlerCode string, args map[string]string, enabled bool) *PaymentMethod {
	if args == nil {
		args = make(map[string]string)
	}
	return &PaymentMethod{
		id:          id,
		channelID:   channelID,
		code:        code,
		handlerCode: handlerCode,
		args:        args,
		enabled:     enabled,
	}
}
