package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Request is a platform-neutral command invocation
type Request struct {
	UserID      int64
	DisplayName string
	Handle      string
	Command     string
	Args        []string
	// ReplyToUserID is the user an admin command explicitly targets (reply-to or mention), 0 if none
	ReplyToUserID int64
}

// Arg returns the i-th argument or an empty string
func (r Request) Arg(i int) string {
	if i < 0 || i >= len(r.Args) {
		return ""
	}
	return r.Args[i]
}

// Text joins every argument back into free text
func (r Request) Text() string {
	return strings.Join(r.Args, " ")
}

// NormalizeCommand lowercases a command and strips a leading prefix and @botname suffix
func NormalizeCommand(command, prefix string) string {
	command = strings.TrimPrefix(command, prefix)
	if at := strings.IndexByte(command, '@'); at >= 0 {
		command = command[:at]
	}
	return strings.ToLower(command)
}

// ParseAmount parses a whole number of points
func ParseAmount(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("missing amount")
	}
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount, nil
}

// ParseMinutes parses a giveaway duration in minutes
func ParseMinutes(s string) (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return minutes, nil
}
