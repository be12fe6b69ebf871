// Package loader reads shader microcode dumps into word buffers.
package loader

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Program represents a shader microcode buffer ready for disassembly.
type Program struct {
	// Path is the file the program was read from.
	Path string
	// Words are the 32-bit microcode words in buffer order.
	Words []uint32
}

// Load reads a raw binary dump of little-endian 32-bit words.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shader dump: %w", err)
	}

	if len(data)%4 != 0 {
		return nil, fmt.Errorf("shader dump %s: size %d is not a whole number of words",
			path, len(data))
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}

	return &Program{Path: path, Words: words}, nil
}

// LoadHex reads a text dump of whitespace-separated hex words, with
// '#' starting a comment that runs to the end of the line. This is the
// format command-stream capture scripts emit.
func LoadHex(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shader dump: %w", err)
	}
	defer func() { _ = f.Close() }()

	var words []uint32
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, tok := range strings.Fields(line) {
			tok = strings.TrimPrefix(tok, "0x")
			word, err := strconv.ParseUint(tok, 16, 32)
			if err != nil {
				return nil, fmt.Errorf("shader dump %s:%d: bad word %q: %w",
					path, lineNo, tok, err)
			}
			words = append(words, uint32(word))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shader dump: %w", err)
	}

	return &Program{Path: path, Words: words}, nil
}
