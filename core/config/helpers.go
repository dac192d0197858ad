package config

import "strings"

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// ensureHexPrefix normalizes hex so hexutil accepts it
func ensureHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	return "0x" + s
}
