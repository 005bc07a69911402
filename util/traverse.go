package util

import "github.com/tidwall/gjson"

// TraverseJSON follows keys from data. When a key is missing at the
// current level, nested objects and arrays are searched depth-first
// and the first non-null match is returned.
func TraverseJSON(data gjson.Result, keys ...string) gjson.Result {
	if len(keys) == 0 {
		return data
	}
	key := keys[0]
	remainingKeys := keys[1:]

	switch {
	case data.IsObject():
		if value := data.Get(gjson.Escape(key)); value.Exists() {
			return TraverseJSON(value, remainingKeys...)
		}
		var found gjson.Result
		data.ForEach(func(_, value gjson.Result) bool {
			found = TraverseJSON(value, keys...)
			return !found.Exists()
		})
		return found
	case data.IsArray():
		var found gjson.Result
		data.ForEach(func(_, value gjson.Result) bool {
			found = TraverseJSON(value, keys...)
			return !found.Exists()
		})
		return found
	}
	return gjson.Result{}
}
