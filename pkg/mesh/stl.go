package mesh

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	stlHeaderSize = 80
	// Facet record: normal and three vertices as float32 triples plus the
	// two attribute bytes.
	stlFacetSize = 50
)

// SaveSTL writes the surface to path in binary STL format.
func SaveSTL(s *Surface, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating STL file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	header := make([]byte, stlHeaderSize)
	copy(header, s.Name)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("error writing STL header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s.Triangles))); err != nil {
		return fmt.Errorf("error writing triangle count: %w", err)
	}

	for _, tri := range s.Triangles {
		for _, v := range [4]Vec3{tri.Normal, tri.V1, tri.V2, tri.V3} {
			data := [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
			if err := binary.Write(w, binary.LittleEndian, data); err != nil {
				return fmt.Errorf("error writing facet data: %w", err)
			}
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
			return fmt.Errorf("error writing attribute bytes: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("error writing STL file: %w", err)
	}
	return nil
}

// LoadSTL reads a binary or ASCII STL file into a surface. Binary detection
// goes by the facet count matching the file size, since binary headers may
// start with the word "solid" as well.
func LoadSTL(path string) (*Surface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading STL file: %w", err)
	}

	if isBinarySTL(data) {
		return parseBinarySTL(data)
	}
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return parseASCIISTL(data)
	}
	return nil, fmt.Errorf("file %s is not a recognized STL format", path)
}

func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	return len(data) == stlHeaderSize+4+int(count)*stlFacetSize
}

func parseBinarySTL(data []byte) (*Surface, error) {
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	name := strings.TrimRight(string(data[:stlHeaderSize]), "\x00 ")

	s := NewSurface(name)
	offset := stlHeaderSize + 4
	for i := uint32(0); i < count; i++ {
		s.AddTriangle(Triangle{
			Normal: readVec3(data, offset),
			V1:     readVec3(data, offset+12),
			V2:     readVec3(data, offset+24),
			V3:     readVec3(data, offset+36),
		})
		offset += stlFacetSize
	}
	return s, nil
}

func readVec3(data []byte, offset int) Vec3 {
	return Vec3{
		X: float64(math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))),
		Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(data[offset+4:]))),
		Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(data[offset+8:]))),
	}
}

func parseASCIISTL(data []byte) (*Surface, error) {
	s := NewSurface("")

	var (
		tri      Triangle
		vertices int
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				s.Name = strings.Join(fields[1:], " ")
			}
		case "facet":
			if len(fields) != 5 || fields[1] != "normal" {
				return nil, fmt.Errorf("line %d: malformed facet declaration", line)
			}
			n, err := parseVec3(fields[2:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			tri = Triangle{Normal: n}
			vertices = 0
		case "vertex":
			if len(fields) != 4 {
				return nil, fmt.Errorf("line %d: malformed vertex", line)
			}
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			switch vertices {
			case 0:
				tri.V1 = v
			case 1:
				tri.V2 = v
			case 2:
				tri.V3 = v
			default:
				return nil, fmt.Errorf("line %d: facet has more than three vertices", line)
			}
			vertices++
		case "endfacet":
			if vertices != 3 {
				return nil, fmt.Errorf("line %d: facet has %d vertices, want 3", line, vertices)
			}
			s.AddTriangle(tri)
		case "outer", "endloop", "endsolid":
			// Structural keywords with nothing to record.
		default:
			return nil, fmt.Errorf("line %d: unexpected token %q", line, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning STL text: %w", err)
	}
	return s, nil
}

func parseVec3(fields []string) (Vec3, error) {
	var v [3]float64
	for i, f := range fields[:3] {
		val, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Vec3{}, fmt.Errorf("invalid coordinate %q: %w", f, err)
		}
		v[i] = val
	}
	return Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}
