package superblock

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/deploymenttheory/go-aefs/internal/types"
)

// headerInfo is the cipher configuration recovered from the plaintext
// superblock file. Sizes are in bytes.
type headerInfo struct {
	cipherID  string
	keySize   int
	blockSize int
	useCBC    bool
}

// readHeader parses the plaintext superblock file. Lines have the
// form "name: value". Unrecognized names and malformed values are
// skipped; when a recognized name is repeated the last occurrence
// wins. priorCBC is the flag value to keep when no use-cbc line is
// present.
func readHeader(path string, priorCBC bool) (headerInfo, error) {
	info := headerInfo{useCBC: priorCBC}

	file, err := os.Open(path)
	if err != nil {
		return info, fmt.Errorf("%w: open %s: %v", types.ErrStorage, path, err)
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		name, value, ok := splitHeaderLine(scanner.Text())
		if !ok {
			continue
		}

		switch name {
		case "cipher":
			id, keyBits, blockBits, ok := parseCipherValue(value)
			if !ok {
				continue
			}
			info.cipherID = id
			info.keySize = keyBits / 8
			info.blockSize = blockBits / 8
		case "use-cbc":
			info.useCBC = value == "1"
		}
	}

	if err := scanner.Err(); err != nil {
		file.Close()
		return info, fmt.Errorf("%w: read %s: %v", types.ErrStorage, path, err)
	}
	if err := file.Close(); err != nil {
		return info, fmt.Errorf("%w: close %s: %v", types.ErrStorage, path, err)
	}

	return info, nil
}

// writeHeader truncates and rewrites the plaintext superblock file.
func writeHeader(path string, info headerInfo) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", types.ErrStorage, path, err)
	}

	cbc := 0
	if info.useCBC {
		cbc = 1
	}
	_, err = fmt.Fprintf(file, "cipher: %s-%d-%d\nuse-cbc: %d\n",
		info.cipherID, info.keySize*8, info.blockSize*8, cbc)
	if err != nil {
		file.Close()
		return fmt.Errorf("%w: write %s: %v", types.ErrStorage, path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", types.ErrStorage, path, err)
	}
	return nil
}

// splitHeaderLine splits "name: value" into its parts. The value is
// the first whitespace-delimited token after the colon; lines without
// a colon or without a value are rejected.
func splitHeaderLine(line string) (name, value string, ok bool) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return "", "", false
	}
	fields := strings.Fields(line[idx+1:])
	if len(fields) == 0 {
		return "", "", false
	}
	return line[:idx], fields[0], true
}

// parseCipherValue parses "<id>-<keyBits>-<blockBits>".
func parseCipherValue(value string) (id string, keyBits, blockBits int, ok bool) {
	parts := strings.SplitN(value, "-", 3)
	if len(parts) != 3 || parts[0] == "" {
		return "", 0, 0, false
	}
	keyBits, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, false
	}
	blockBits, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, 0, false
	}
	return parts[0], keyBits, blockBits, true
}
