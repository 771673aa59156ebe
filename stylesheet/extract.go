package stylesheet

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/bavarder-cli/bavarder/filesystem"
	"github.com/samber/lo"
)

// maxLineSize bounds a single stylesheet line; minified CSS can be long.
const maxLineSize = 1 << 20

// Result is everything extracted from one stylesheet.
type Result struct {
	Variables   map[string]string
	Palette     map[string]map[string]string
	Passthrough string
}

// NewResult returns an empty result with every palette family initialized.
func NewResult() *Result {
	return &Result{
		Variables: make(map[string]string),
		Palette: lo.SliceToMap(Families, func(prefix string) (string, map[string]string) {
			return FamilyName(prefix), make(map[string]string)
		}),
	}
}

// Extract classifies every line of source.
// A malformed declaration fails the whole extraction.
func Extract(source io.Reader) (*Result, error) {
	var (
		result      = NewResult()
		passthrough strings.Builder
		scanner     = bufio.NewScanner(source)
		number      int
	)

	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		number++

		line, err := Classify(number, scanner.Text())
		if err != nil {
			return nil, err
		}

		switch line.Kind {
		case Variable:
			result.Variables[line.Name] = line.Value
		case Palette:
			result.Palette[line.Family][line.Shade] = line.Value
		default:
			passthrough.WriteString(line.Text)
			passthrough.WriteByte('\n')
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}

	result.Passthrough = passthrough.String()
	return result, nil
}

// ExtractString is Extract over an in-memory stylesheet.
func ExtractString(source string) (*Result, error) {
	return Extract(strings.NewReader(source))
}

// ExtractFile extracts the stylesheet at path.
// A missing file is reported as ErrThemeSourceMissing.
func ExtractFile(path string) (*Result, error) {
	file, err := filesystem.API().Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrThemeSourceMissing, path)
		}
		return nil, err
	}
	defer file.Close()

	return Extract(file)
}

// Declarations returns how many declarations were extracted.
func (r *Result) Declarations() int {
	n := len(r.Variables)
	for _, shades := range r.Palette {
		n += len(shades)
	}
	return n
}
