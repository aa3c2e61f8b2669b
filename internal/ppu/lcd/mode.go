package lcd

// Mode represents a mode of the LCD. The values match the mode
// field reported in bits 1-0 of the STAT register.
type Mode uint8

const (
	// HBlank is the horizontal blanking mode. The CPU can access both the display RAM and OAM.
	HBlank Mode = iota
	// VBlank is the vertical blanking mode. The CPU can access both the display RAM and OAM.
	VBlank
	// OAM is the OAM mode. The CPU can access the display RAM but not OAM.
	OAM
	// VRAM is the pixel transfer mode. The CPU can access neither the display RAM nor OAM.
	VRAM
)

const (
	// OAMDots is the number of dots spent scanning OAM.
	OAMDots = 80
	// VRAMDots is the number of dots spent drawing a scanline.
	VRAMDots = 172
	// HBlankDots is the number of dots spent in HBlank.
	HBlankDots = 204
	// LineDots is the number of dots in a single scanline.
	LineDots = OAMDots + VRAMDots + HBlankDots
	// VisibleLines is the number of scanlines drawn to the screen.
	VisibleLines = 144
	// TotalLines is the number of scanlines in a frame, including VBlank.
	TotalLines = 154
	// FrameDots is the number of dots in a single frame.
	FrameDots = LineDots * TotalLines
)

var modeNames = [4]string{"HBlank", "VBlank", "OAM", "VRAM"}

func (m Mode) String() string {
	return modeNames[m&3]
}

// Duration returns the number of dots the mode lasts for before
// the next transition is evaluated. VBlank lasts for one scanline,
// and is repeated for each of the non-visible scanlines.
func (m Mode) Duration() uint16 {
	switch m & 3 {
	case OAM:
		return OAMDots
	case VRAM:
		return VRAMDots
	case HBlank:
		return HBlankDots
	}
	return LineDots
}

// Next returns the mode entered once m has run for its full duration
// on scanline ly.
func (m Mode) Next(ly uint8) Mode {
	switch m & 3 {
	case OAM:
		return VRAM
	case VRAM:
		return HBlank
	case HBlank:
		if ly+1 >= VisibleLines {
			return VBlank
		}
		return OAM
	}

	if uint16(ly)+1 >= TotalLines {
		return OAM
	}
	return VBlank
}
