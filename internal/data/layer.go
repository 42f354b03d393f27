package data

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// TileCell is one decoded cell of a region's tile layer. The on-disk value
// packs metatile id in bits 0-9, collision type in bits 10-11 and elevation
// in bits 12-15 (pokeemerald metatile layout).
type TileCell struct {
	Metatile  uint16
	Collision uint8
	Elevation uint8
}

const (
	metatileIDMask = 0x03FF
	collisionMask  = 0x0C00
	collisionShift = 10
	elevationShift = 12
)

func decodeCell(v uint16) TileCell {
	return TileCell{
		Metatile:  v & metatileIDMask,
		Collision: uint8((v & collisionMask) >> collisionShift),
		Elevation: uint8(v >> elevationShift),
	}
}

// LoadTileLayer reads a region's tile layer: {id}.csv in the layer directory,
// or {id}.csv.zst when the authoring pipeline compressed it. Rows are Y
// lines of comma-separated packed cell values; short or missing cells decode
// as zero (empty ground).
func LoadTileLayer(dir, regionID string, width, height int32) ([]TileCell, error) {
	var r io.Reader
	plain := filepath.Join(dir, regionID+".csv")
	f, err := os.Open(plain)
	if err == nil {
		defer f.Close()
		r = f
	} else {
		zf, zerr := os.Open(plain + ".zst")
		if zerr != nil {
			return nil, fmt.Errorf("open tile layer for %s: %w", regionID, err)
		}
		defer zf.Close()
		dec, derr := zstd.NewReader(zf)
		if derr != nil {
			return nil, fmt.Errorf("zstd reader for %s: %w", regionID, derr)
		}
		defer dec.Close()
		r = dec
	}
	return parseTileLayer(r, width, height)
}

func parseTileLayer(r io.Reader, width, height int32) ([]TileCell, error) {
	cells := make([]TileCell, int(width)*int(height))

	scanner := bufio.NewScanner(r)
	// Wide regions can exceed the default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)

	y := int32(0)
	for scanner.Scan() && y < height {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		x := int32(0)
		for _, tok := range strings.Split(line, ",") {
			if x >= width {
				break
			}
			v, err := strconv.ParseUint(strings.TrimSpace(tok), 10, 16)
			if err != nil {
				v = 0
			}
			cells[y*width+x] = decodeCell(uint16(v))
			x++
		}
		y++
	}
	return cells, scanner.Err()
}
