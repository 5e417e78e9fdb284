package terrain

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Options control how a heightmap file is interpreted
type Options struct {
	CellSize    float64 // world units between samples, default 1
	HeightScale float64 // world height of a full-intensity sample, default 20
}

func (o Options) withDefaults() Options {
	if o.CellSize <= 0 {
		o.CellSize = 1
	}
	if o.HeightScale <= 0 {
		o.HeightScale = 20
	}
	return o
}

// Parse reads a PGM heightmap file and returns a Terrain.
// It automatically detects whether the file is ASCII (P2) or binary (P5).
func Parse(filename string, opts Options) (*Terrain, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return parse(file, name, opts.withDefaults())
}

func parse(r io.Reader, name string, opts Options) (*Terrain, error) {
	br := bufio.NewReader(r)

	magic, err := nextToken(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if magic != "P2" && magic != "P5" {
		return nil, fmt.Errorf("unsupported format %q (expected PGM P2 or P5)", magic)
	}

	dims := [3]int{}
	for i := range dims {
		tok, err := nextToken(br)
		if err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid header value %q: %w", tok, err)
		}
		dims[i] = v
	}
	cols, rows, maxval := dims[0], dims[1], dims[2]
	if cols < 2 || rows < 2 {
		return nil, fmt.Errorf("heightmap too small: %dx%d (need at least 2x2)", cols, rows)
	}
	if maxval <= 0 || maxval > 65535 {
		return nil, fmt.Errorf("invalid max value %d", maxval)
	}

	heights := make([]float64, cols*rows)
	scale := opts.HeightScale / float64(maxval)

	if magic == "P2" {
		for i := range heights {
			tok, err := nextToken(br)
			if err != nil {
				return nil, fmt.Errorf("failed to read sample %d: %w", i, err)
			}
			v, err := strconv.Atoi(tok)
			if err != nil {
				return nil, fmt.Errorf("invalid sample %q: %w", tok, err)
			}
			heights[i] = float64(v) * scale
		}
	} else {
		bytesPer := 1
		if maxval > 255 {
			bytesPer = 2
		}
		raw := make([]byte, cols*rows*bytesPer)
		if _, err := io.ReadFull(br, raw); err != nil {
			return nil, fmt.Errorf("failed to read samples: %w", err)
		}
		for i := range heights {
			var v int
			if bytesPer == 2 {
				v = int(raw[i*2])<<8 | int(raw[i*2+1])
			} else {
				v = int(raw[i])
			}
			heights[i] = float64(v) * scale
		}
	}

	return New(name, cols, rows, opts.CellSize, heights), nil
}

// nextToken reads the next whitespace-delimited token, skipping # comments
func nextToken(br *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF && sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
		switch {
		case b == '#':
			if _, err := br.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			if sb.Len() > 0 {
				return sb.String(), nil
			}
		default:
			sb.WriteByte(b)
		}
	}
}
