package session

import (
	"strconv"
	"strings"
)

// CommandKind is what a line typed at the prompt asks for.
type CommandKind int

const (
	CommandScan   CommandKind = iota // scan the current page and move on
	CommandCancel                    // stop without saving
	CommandSave                      // stop and assemble the output
	CommandGoto                      // rescan from another page
)

// Command is a parsed prompt line.
type Command struct {
	Kind CommandKind
	Page int // target of CommandGoto
}

// ParseCommand interprets one prompt line. Anything that is not q, s or a
// positive page number scans.
func ParseCommand(line string) Command {
	line = strings.TrimSpace(line)
	switch line {
	case "q":
		return Command{Kind: CommandCancel}
	case "s":
		return Command{Kind: CommandSave}
	}
	if isDigits(line) {
		if n, err := strconv.Atoi(line); err == nil && n > 0 {
			return Command{Kind: CommandGoto, Page: n}
		}
	}
	return Command{Kind: CommandScan}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
