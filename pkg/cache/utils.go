package cache

import "fmt"

// GenerateKey joins a prefix and an ID into a cache key.
func GenerateKey(prefix, id string) string {
	return fmt.Sprintf("%s:%s", prefix, id)
}

// GenerateKeyWithParams builds a cache key from a prefix and parameters.
func GenerateKeyWithParams(prefix string, params ...interface{}) string {
	key := prefix
	for _, param := range params {
		key = fmt.Sprintf("%s:%v", key, param)
	}
	return key
}

// BuildPattern turns a prefix into a Redis match pattern.
func BuildPattern(prefix string) string {
	return prefix + "*"
}
