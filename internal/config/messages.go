package config

import "fmt"

const (
	errInvalidValueFmt = "invalid value for %s: %q"
)

type messageBuilders struct {
	invalidValue func(key, value string) string
}

func newMessageBuilders() messageBuilders {
	return messageBuilders{
		invalidValue: func(key, value string) string {
			return fmt.Sprintf(errInvalidValueFmt, key, value)
		},
	}
}

var messages = newMessageBuilders()
