package merge

import (
	"os"

	"github.com/ROCm/pdbmerge/pkg/errors"
	"github.com/ROCm/pdbmerge/pkg/resolve"
)

// truncate creates the file at path empty, verifying the destination is
// writable before any key is visited.
func truncate(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	return errors.WrapIO("create", path, file.Close())
}

// appendLine appends one newline-terminated record to path. The handle is
// scoped to the single write; nothing stays open between keys.
func appendLine(path, line string) error {
	return appendBytes(path, []byte(line+"\n"))
}

func appendBytes(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.WrapIO("append", path, err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return errors.WrapIO("write", path, err)
	}
	return errors.WrapIO("write", path, file.Close())
}

// appendReport appends one conflict report in the requested format.
func appendReport(path string, report *resolve.Report, asYAML bool) error {
	if asYAML {
		body, err := report.YAML()
		if err != nil {
			return errors.WrapIO("write", path, err)
		}
		return appendBytes(path, body)
	}
	return appendBytes(path, []byte(report.Text()))
}
