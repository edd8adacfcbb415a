package bridge

// Outbound method names.
const (
	MethodVariableRegistered = "VariableRegistered"
	MethodVariableUpdated    = "VariableUpdated"
	MethodActionRegistered   = "ActionRegistered"
	MethodActionUnregistered = "ActionUnregistered"
	MethodLogMessage         = "LogMessage"
)

// Host is the native side of the bridge.
type Host interface {
	// Begin acquires whatever native resources a call to method needs.
	// The returned Call must be released on every path.
	Begin(method string) (Call, error)
	// Close releases the host. It is called once, from Adapter.Destroy.
	Close() error
}

// Call is one in-flight outbound call.
type Call interface {
	Invoke(args ...Slot) error
	Release()
}
