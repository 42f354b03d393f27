package stream

import (
	"testing"

	"go.uber.org/zap"

	"github.com/hollowbrook/engine/internal/data"
)

// Each direction must place the neighbour with zero gap and zero overlap.
// North and west use the adjacent region's dimensions (it grows away from
// the source origin); south and east use the source's.
func TestResolvePlacement_AllDirections(t *testing.T) {
	log := zap.NewNop()

	// 10x8 tile source at origin (0,0), tile size 16 => 160x128 px.
	src := &RegionInstance{
		Def:     &data.RegionDef{ID: "src", Width: 10, Height: 8, TileSize: 16},
		OriginX: 0,
		OriginY: 0,
	}
	adj := &data.RegionDef{ID: "adj", Width: 6, Height: 6, TileSize: 16} // 96x96 px

	tests := []struct {
		dir    data.Direction
		offset int32
		wantX  int32
		wantY  int32
	}{
		{data.South, 2, 32, 128}, // source height below origin
		{data.North, 2, 32, -96}, // adjacent height above origin
		{data.East, 1, 160, 16},  // source width right of origin
		{data.West, 1, -96, 16},  // adjacent width left of origin
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			conn := data.ConnectionDef{From: "src", Dir: tt.dir, To: "adj", OffsetTiles: tt.offset}
			x, y := ResolvePlacement(src, conn, adj, log)
			if x != tt.wantX || y != tt.wantY {
				t.Fatalf("%s: got (%d,%d), want (%d,%d)", tt.dir, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

// A north/south pair with the same lateral offset must meet edge to edge.
func TestResolvePlacement_OffsetSymmetry(t *testing.T) {
	log := zap.NewNop()
	src := &RegionInstance{
		Def:     &data.RegionDef{ID: "a", Width: 12, Height: 10, TileSize: 16},
		OriginX: 64,
		OriginY: 320,
	}
	adj := &data.RegionDef{ID: "b", Width: 12, Height: 4, TileSize: 16}

	_, yN := ResolvePlacement(src, data.ConnectionDef{Dir: data.North, To: "b"}, adj, log)
	if got := yN + adj.HeightPx(); got != src.OriginY {
		t.Fatalf("north neighbour bottom edge at %d, want %d", got, src.OriginY)
	}
	_, yS := ResolvePlacement(src, data.ConnectionDef{Dir: data.South, To: "b"}, adj, log)
	if got := src.OriginY + src.Def.HeightPx(); got != yS {
		t.Fatalf("south neighbour top edge at %d, want %d", yS, got)
	}
}

// Missing adjacent dimensions fall back to the source's own, keeping the
// geometry connected even if misaligned.
func TestResolvePlacement_MissingDimensionsFallback(t *testing.T) {
	log := zap.NewNop()
	src := &RegionInstance{
		Def:     &data.RegionDef{ID: "src", Width: 10, Height: 8, TileSize: 16},
		OriginX: 0,
		OriginY: 0,
	}
	conn := data.ConnectionDef{From: "src", Dir: data.North, To: "ghost"}

	x, y := ResolvePlacement(src, conn, nil, log)
	if x != 0 || y != -src.Def.HeightPx() {
		t.Fatalf("got (%d,%d), want (0,%d)", x, y, -src.Def.HeightPx())
	}

	zeroDims := &data.RegionDef{ID: "ghost"}
	x, y = ResolvePlacement(src, conn, zeroDims, log)
	if x != 0 || y != -src.Def.HeightPx() {
		t.Fatalf("zero-dim fallback: got (%d,%d), want (0,%d)", x, y, -src.Def.HeightPx())
	}
}
