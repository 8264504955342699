package cache

import "strings"

// MakeKey joins a namespace and parts into a colon-delimited logical key.
// Empty parts are dropped.
func MakeKey(namespace string, parts ...string) string {
	elems := make([]string, 0, len(parts)+1)
	elems = append(elems, namespace)
	for _, part := range parts {
		if part != "" {
			elems = append(elems, part)
		}
	}
	return strings.Join(elems, ":")
}

// UserProfileKey is the logical key for a subject's cached {id, role}
// projection.
func UserProfileKey(userID string) string {
	return MakeKey("user:profile", userID)
}
