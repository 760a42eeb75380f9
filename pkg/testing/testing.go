// Package testing is imported by _test files only. Importing it moves the
// working directory to the repository root so file based resources (logs,
// sqlite files) land in the same place no matter which package runs.
package testing

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path"
	"runtime"
)

func init() {
	//   import (
	//     thptest "liyu1981.xyz/thp-sensor-service/pkg/testing"
	//   )
	// or with a blank import when only the chdir is wanted.

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}
}

// ParseLogs decodes JSON log lines, skipping anything that is not JSON.
func ParseLogs(r io.Reader) []map[string]any {
	scanner := bufio.NewScanner(r)
	var logs []map[string]any

	for scanner.Scan() {
		var j map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}

// CountLogs returns how many entries satisfy match.
func CountLogs(logs []map[string]any, match func(map[string]any) bool) int {
	n := 0
	for _, l := range logs {
		if match(l) {
			n++
		}
	}
	return n
}
