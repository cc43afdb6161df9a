package domain

import "strings"

type CartAction string

const (
	ActionIncrease CartAction = "aumentar"
	ActionDecrease CartAction = "diminuir"
	ActionDelete   CartAction = "deletar"
)

// ParseCartAction matches the verb case-insensitively.
func ParseCartAction(s string) (CartAction, bool) {
	switch a := CartAction(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionIncrease, ActionDecrease, ActionDelete:
		return a, true
	}
	return "", false
}
