package web

// Event is a hub setting, sent by a client as [System, Event, value].
type Event = uint8

const (
	_ Event = iota
	Compression
	CompressionLevel
	FramePatching
	FrameSkipping
	ClientStatus
	BackgroundDisabled
	WindowDisabled
	OBJDisabled
	FramePatchingRatio
	RegisterUsername
)

// Control is the first byte of a message sent by a client.
type Control = uint8

const (
	Pause   Control = 0
	Unpause Control = 1
	Layer   Control = 9  // [Layer, layer, enabled]
	System  Control = 10 // [System, Event, value...]
	Closing Control = 255
)

// Layers that can be toggled with a Layer message.
const (
	LayerBackground uint8 = iota
	LayerWindow
	LayerOBJ
)

// PlayerEvent describes a change to the running machine, broadcast
// as [PlayerInfo, PlayerEvent, value].
type PlayerEvent = uint8

const (
	PausePlay PlayerEvent = iota
	Status
	BackgroundEnabled
	WindowEnabled
	OBJEnabled
)

// Type is the first byte of a message sent by the hub.
type Type = uint8

const (
	Frame Type = iota
	FramePatch
	FrameSkip
	ClientInfo
	PatchCache
	PatchCacheSync
	FrameCache
	FrameCacheSync
	FrameSync
	ClientListSync
	ClientClosing
	ServerInfo
	PlayerInfo
	PlayerIdentify
)
