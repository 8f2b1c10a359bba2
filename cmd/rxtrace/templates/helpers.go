package templates

import (
	"strconv"
	"strings"
)

func plural(n int, word string) string {
	s := strconv.Itoa(n) + " " + word
	if n != 1 {
		s += "s"
	}
	return s
}

func indented(prefix, s string) string {
	var sb strings.Builder
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		sb.WriteString(prefix)
		sb.WriteString(line)
		if i < len(lines)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func mode(t *Trace) string {
	switch {
	case t.Sync && t.Deep:
		return "sync, deep"
	case t.Sync:
		return "sync"
	case t.Deep:
		return "batched, deep"
	default:
		return "batched"
	}
}
