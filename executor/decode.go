package executor

import "encoding/json"

func unmarshalSchema(raw []byte, out interface{}) error {
	return json.Unmarshal(raw, out)
}
