package turnplayer

import (
	"errors"
	"strings"
)

// ParseSwitch reads an on/off setting.
func ParseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, errors.New("valid options: 'on', 'off'")
}
