package chain

import (
	"fmt"
	"strings"
)

const objectIDHexLen = 64

// ParseObjectIDs validates object IDs and pads them to their canonical
// 32-byte hex form.
func ParseObjectIDs(inputs []string) ([]string, error) {
	ids := make([]string, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, input := range inputs {
		input = strings.ToLower(strings.TrimSpace(input))
		if input == "" {
			continue
		}
		if !strings.HasPrefix(input, "0x") {
			return nil, fmt.Errorf("invalid object id: %s", input)
		}
		hex := input[2:]
		if hex == "" || len(hex) > objectIDHexLen || !isHex(hex) {
			return nil, fmt.Errorf("invalid object id: %s", input)
		}
		id := "0x" + strings.Repeat("0", objectIDHexLen-len(hex)) + hex
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func isHex(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
