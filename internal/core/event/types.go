package event

// RegionEntered is published when a streaming agent crosses a boundary into
// an adjacent region. External listeners (HUD, audio, quest triggers) key off
// the display name; the streaming core itself never consumes it.
type RegionEntered struct {
	From        string
	To          string
	DisplayName string
}

// RegionLoaded and RegionUnloaded mirror lifecycle commits for listeners that
// track the live region set (debug overlays, profilers).
type RegionLoaded struct {
	ID string
}

type RegionUnloaded struct {
	ID string
}
