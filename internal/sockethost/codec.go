package sockethost

import (
	"fmt"
	"strconv"

	"github.com/vk/devconsole/internal/bridge"
)

// encodeCall builds the bridge_call payload.
func encodeCall(method string, args []bridge.Slot) map[string]any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a.Interface()
	}
	return map[string]any{"method": method, "args": out}
}

// decodeMessage flattens the first event argument into a string map.
// Numbers and booleans are rendered the way the bridge parses them.
func decodeMessage(data []any) (map[string]string, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("console message without payload")
	}
	obj, ok := data[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("console message payload is %T, want object", data[0])
	}
	msg := make(map[string]string, len(obj))
	for k, v := range obj {
		switch x := v.(type) {
		case nil:
			continue
		case string:
			msg[k] = x
		case bool:
			if x {
				msg[k] = "1"
			} else {
				msg[k] = "0"
			}
		case float64:
			msg[k] = strconv.FormatFloat(x, 'f', -1, 64)
		case int:
			msg[k] = strconv.Itoa(x)
		case int64:
			msg[k] = strconv.FormatInt(x, 10)
		default:
			return nil, fmt.Errorf("field %q has unsupported type %T", k, v)
		}
	}
	if msg["name"] == "" {
		return nil, fmt.Errorf("console message without name")
	}
	return msg, nil
}
