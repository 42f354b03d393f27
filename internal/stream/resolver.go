package stream

import (
	"go.uber.org/zap"

	"github.com/hollowbrook/engine/internal/data"
)

// ResolvePlacement computes the world-space pixel origin at which a
// connected region must be placed so that it shares an edge with the source
// with zero gap and zero overlap.
//
// Growing away from the source origin (north, west) uses the adjacent
// region's own dimensions, because the neighbour extends upward or leftward
// from the shared edge. Growing from the source's trailing edge (south,
// east) uses the source's dimensions. The lateral connection offset shifts
// the perpendicular axis in source tile-size pixels.
//
// When the adjacent definition is missing its dimensions, the source's own
// dimensions stand in and a degraded-placement warning is logged: geometry
// stays connected, possibly visibly misaligned.
func ResolvePlacement(src *RegionInstance, conn data.ConnectionDef, adj *data.RegionDef, log *zap.Logger) (x, y int32) {
	tile := src.Def.TileSize

	adjW := src.Def.WidthPx()
	adjH := src.Def.HeightPx()
	if adj != nil && adj.Width > 0 && adj.Height > 0 {
		adjW = adj.Width * tile
		adjH = adj.Height * tile
	} else {
		log.Warn("adjacent region dimensions unavailable, using source dimensions",
			zap.String("from", conn.From),
			zap.String("to", conn.To),
			zap.String("dir", conn.Dir.String()))
	}

	lateral := conn.OffsetTiles * tile

	switch conn.Dir {
	case data.North:
		return src.OriginX + lateral, src.OriginY - adjH
	case data.South:
		return src.OriginX + lateral, src.OriginY + src.Def.HeightPx()
	case data.East:
		return src.OriginX + src.Def.WidthPx(), src.OriginY + lateral
	case data.West:
		return src.OriginX - adjW, src.OriginY + lateral
	}
	return src.OriginX, src.OriginY
}
