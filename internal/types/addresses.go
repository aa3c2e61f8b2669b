package types

// HardwareAddress represents the address of a hardware register.
// The registers the video controller works with are mapped to
// 0xFF00 - 0xFF7F, with IE sitting on its own at 0xFFFF.
type HardwareAddress = uint16

const (
	// IF is the interrupt request register. A peripheral requests an
	// interrupt by setting its bit; only the CPU clears them.
	//
	//  Bit 0: V-Blank Interrupt Request (INT 40h)  (1=Request)
	//  Bit 1: LCD STAT Interrupt Request (INT 48h) (1=Request)
	//  Bit 2: Timer Interrupt Request (INT 50h)    (1=Request)
	//  Bit 3: Serial Interrupt Request (INT 58h)   (1=Request)
	//  Bit 4: Joypad Interrupt Request (INT 60h)   (1=Request)
	IF HardwareAddress = 0xFF0F
	// LCDC controls what the LCD draws and where it fetches it from.
	//
	//  Bit 7: LCD Enable                     (0=Off, 1=On)
	//  Bit 6: Window Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
	//  Bit 5: Window Display Enable          (0=Off, 1=On)
	//  Bit 4: BG & Window Tile Data Select   (0=8800-97FF, 1=8000-8FFF)
	//  Bit 3: BG Tile Map Display Select     (0=9800-9BFF, 1=9C00-9FFF)
	//  Bit 2: OBJ Size                       (0=8x8, 1=8x16)
	//  Bit 1: OBJ Display Enable             (0=Off, 1=On)
	//  Bit 0: BG Display                     (0=Off, 1=On)
	LCDC HardwareAddress = 0xFF40
	// STAT reports the current mode of the LCD and selects which
	// conditions request the LCD STAT interrupt.
	//
	//  Bit 6: LYC=LY Coincidence Interrupt (1=Enable) (Read/Write)
	//  Bit 5: Mode 2 OAM Interrupt         (1=Enable) (Read/Write)
	//  Bit 4: Mode 1 V-Blank Interrupt     (1=Enable) (Read/Write)
	//  Bit 3: Mode 0 H-Blank Interrupt     (1=Enable) (Read/Write)
	//  Bit 2: Coincidence Flag  (0:LYC<>LY, 1:LYC=LY) (Read Only)
	//  Bit 1-0: Mode Flag                             (Read Only)
	STAT HardwareAddress = 0xFF41
	// SCY is the vertical scroll position of the background.
	SCY HardwareAddress = 0xFF42
	// SCX is the horizontal scroll position of the background.
	SCX HardwareAddress = 0xFF43
	// LY is the scanline currently being timed, 0-153. It is owned
	// by the video controller and read-only to everything else.
	LY HardwareAddress = 0xFF44
	// LYC is compared against LY every dot. When they match the
	// coincidence flag in STAT is set.
	LYC HardwareAddress = 0xFF45
	// DMA starts a 160 byte copy from (value << 8) into OAM.
	DMA HardwareAddress = 0xFF46
	// BGP assigns a shade to each background colour number.
	//
	//  Bit 7-6 - Shade for Color Number 3
	//  Bit 5-4 - Shade for Color Number 2
	//  Bit 3-2 - Shade for Color Number 1
	//  Bit 1-0 - Shade for Color Number 0
	BGP HardwareAddress = 0xFF47
	// OBP0 assigns shades for objects using palette 0. Colour number
	// 0 is always transparent for objects, so bits 1-0 are ignored.
	OBP0 HardwareAddress = 0xFF48
	// OBP1 is the same as OBP0, for objects using palette 1.
	OBP1 HardwareAddress = 0xFF49
	// WY is the Y position of the window's top edge.
	WY HardwareAddress = 0xFF4A
	// WX is the X position of the window's left edge, plus 7.
	WX HardwareAddress = 0xFF4B
	// VBK selects the VRAM bank visible to the CPU. Only bit 0 is
	// used, the remaining bits read back as 1.
	VBK HardwareAddress = 0xFF4F
	// HDMA1 and HDMA2 hold the source address of a VRAM DMA transfer.
	// The lower 4 bits are ignored.
	HDMA1 HardwareAddress = 0xFF51
	HDMA2 HardwareAddress = 0xFF52
	// HDMA3 and HDMA4 hold the destination address of a VRAM DMA
	// transfer, relative to VRAM. Only bits 12-4 are respected.
	HDMA3 HardwareAddress = 0xFF53
	HDMA4 HardwareAddress = 0xFF54
	// HDMA5 starts a VRAM DMA transfer and reports its progress.
	//
	//  Bit 7   - Transfer Mode (0=General Purpose, 1=H-Blank)
	//  Bit 6-0 - Transfer Length ((value+1) * 16 bytes)
	HDMA5 HardwareAddress = 0xFF55
	// BCPS selects the byte of background palette memory accessed
	// through BCPD.
	//
	//  Bit 7   - Auto Increment  (0=Off, 1=On)
	//  Bit 5-0 - Palette Index   ($00-$3F)
	BCPS HardwareAddress = 0xFF68
	// BCPD reads and writes background palette memory.
	//
	//  Bit   0 - 4 = Red Intensity   ($00-$1F)
	//  Bit   5 - 9 = Green Intensity ($00-$1F)
	//  Bit 10 - 14 = Blue Intensity  ($00-$1F)
	BCPD HardwareAddress = 0xFF69
	// OCPS is the object palette counterpart to BCPS.
	OCPS HardwareAddress = 0xFF6A
	// OCPD is the object palette counterpart to BCPD.
	OCPD HardwareAddress = 0xFF6B
	// IE enables interrupts. It is not touched by the video controller.
	IE HardwareAddress = 0xFFFF
)

const (
	// VRAMStart is the first address of video memory.
	VRAMStart uint16 = 0x8000
	// VRAMSize is the size of a single VRAM bank.
	VRAMSize = 0x2000
	// TileMap0 and TileMap1 are the two 32x32 tile maps.
	TileMap0 uint16 = 0x9800
	TileMap1 uint16 = 0x9C00
	// OAMStart is the first address of object attribute memory.
	OAMStart uint16 = 0xFE00
	// OAMSize is 40 entries of 4 bytes.
	OAMSize = 0xA0
	// IOStart is the first address of the hardware register window.
	IOStart uint16 = 0xFF00
)
