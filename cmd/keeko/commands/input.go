// Package commands implements the keeko CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadInput reads an encoded message from path, or from stdin when path is
// "-". With isHex the input is hex text; whitespace is ignored.
func ReadInput(path string, stdin io.Reader, isHex bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if !isHex {
		return data, nil
	}
	return DecodeHex(string(data))
}

// DecodeHex decodes hex text, ignoring whitespace and an optional 0x prefix.
func DecodeHex(text string) ([]byte, error) {
	clean := strings.Join(strings.Fields(text), "")
	clean = strings.TrimPrefix(strings.TrimPrefix(clean, "0x"), "0X")
	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}
