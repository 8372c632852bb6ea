package session

import (
	"encoding/json"
	"strconv"
)

// Roles and the user id are persisted as strings under fixed keys, the way
// browser-local storage would hold them. Role sequences travel as a JSON
// array of names.

func encodeRoles(roles []Role) (string, error) {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(NormalizeRole(string(r)))
	}

	data, err := json.Marshal(names)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeRoles(raw string) ([]Role, error) {
	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, err
	}
	return NormalizeRoles(names), nil
}

func encodeUserID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func decodeUserID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
