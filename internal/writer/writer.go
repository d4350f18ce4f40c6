// Package writer emits the assignment-file format: a single line of
// space-separated machine ids.
package writer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Assignment writes assignment to w as one line of space-separated
// machine ids, no trailing space, terminated by a single newline.
func Assignment(w io.Writer, assignment []int) error {
	bw := bufio.NewWriter(w)
	for i, m := range assignment {
		if i > 0 {
			if _, err := bw.WriteString(" "); err != nil {
				return fmt.Errorf("writer: %w", err)
			}
		}
		if _, err := bw.WriteString(strconv.Itoa(m)); err != nil {
			return fmt.Errorf("writer: %w", err)
		}
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return fmt.Errorf("writer: %w", err)
	}
	return bw.Flush()
}

// AssignmentFile writes assignment to the file at path, creating or
// truncating it.
func AssignmentFile(path string, assignment []int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writer: creating %s: %w", path, err)
	}
	defer f.Close()
	if err := Assignment(f, assignment); err != nil {
		return fmt.Errorf("writer: writing %s: %w", path, err)
	}
	return nil
}
