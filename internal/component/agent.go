package component

// Offset is a world-space pixel offset.
type Offset struct {
	X int32
	Y int32
}

// StreamingAgent is attached to an entity whose boundary proximity drives
// region loads and unloads (normally the player). The loaded set records the
// world offset each region was placed at, keyed by region id. Only the
// streaming coordinator and the lifecycle manager mutate this component.
type StreamingAgent struct {
	CurrentRegion string
	Loaded        map[string]Offset

	// Local grid coordinates within the current region, recomputed on every
	// boundary crossing from the new region's world offset.
	GridX int32
	GridY int32
}

// NewStreamingAgent returns an agent with no regions loaded (idle state).
func NewStreamingAgent() *StreamingAgent {
	return &StreamingAgent{
		Loaded: make(map[string]Offset, 8),
	}
}
