package netcode

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// CompilationUnit is one decompiled source file as a line sequence.
type CompilationUnit struct {
	Name  string
	Lines []string
}

// ReadUnit reads r into a unit. Line terminators and carriage returns are
// removed; every line, blank ones included, is kept in order.
func ReadUnit(name string, r io.Reader) (*CompilationUnit, error) {
	br := bufio.NewReader(r)
	var lines []string
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			lines = append(lines, normalizeLine(line))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return &CompilationUnit{Name: name, Lines: lines}, nil
}

// ReadUnitFile reads the unit stored at path.
func ReadUnitFile(path string) (*CompilationUnit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadUnit(path, f)
}

// NewUnit builds a unit from in-memory source text.
func NewUnit(name, source string) *CompilationUnit {
	u, _ := ReadUnit(name, strings.NewReader(source))
	return u
}

func normalizeLine(line string) string {
	line = strings.ReplaceAll(line, "\r", "")
	return strings.ReplaceAll(line, "\n", "")
}
