package codeexecutor

import "strings"

// cleanOutput trims and unifies line endings without collapsing interior
// whitespace; the comparator decides equality, this only removes noise.
func cleanOutput(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", "\n")
}

// cleanErrorMessage strips container-runtime boilerplate from an error
// stream so users see their program's error, not the sandbox's.
func cleanErrorMessage(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "docker:") {
			continue
		}
		if strings.Contains(trimmed, "container_linux.go") {
			continue
		}
		if strings.HasPrefix(trimmed, "DOCKER_STATS:") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
