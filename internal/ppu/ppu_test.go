package ppu

import (
	"testing"

	"github.com/thelolagemann/gomeboy-ppu/internal/io"
	"github.com/thelolagemann/gomeboy-ppu/internal/ppu/lcd"
	"github.com/thelolagemann/gomeboy-ppu/internal/ppu/palette"
	"github.com/thelolagemann/gomeboy-ppu/internal/types"
)

var (
	white = palette.Palettes[palette.Greyscale][0]
	light = palette.Palettes[palette.Greyscale][1]
	dark  = palette.Palettes[palette.Greyscale][2]
	black = palette.Palettes[palette.Greyscale][3]
)

func newTestPPU(model types.Model) (*io.Bus, *PPU) {
	b := io.NewBus(io.WithModel(model))
	return b, New(b)
}

func tick(p *PPU, n int) {
	for i := 0; i < n; i++ {
		p.Tick()
	}
}

// tickUntilLY ticks until LY reads ly, failing after two frames.
func tickUntilLY(t *testing.T, p *PPU, ly uint8) {
	t.Helper()
	for i := 0; i < lcd.FrameDots*2; i++ {
		if p.LY() == ly {
			return
		}
		p.Tick()
	}
	t.Fatalf("LY never reached %d", ly)
}

func TestPPU_ModeTiming(t *testing.T) {
	b, p := newTestPPU(types.DMGABC)
	b.Write(types.LCDC, 0x91)

	type run struct {
		mode lcd.Mode
		dots int
	}
	var runs []run
	current := run{mode: lcd.OAM}
	for i := 0; i < lcd.FrameDots*2; i++ {
		p.Tick()
		if p.Dots() >= p.Mode().Duration() {
			t.Fatalf("dot %d: %d dots exceeds %s duration", i, p.Dots(), p.Mode())
		}
		if p.Mode() != current.mode {
			runs = append(runs, current)
			current = run{mode: p.Mode()}
		}
		current.dots++
	}

	// the first tick after enabling the LCD is the first OAM dot
	var expected []run
	for frame := 0; frame < 2; frame++ {
		for line := 0; line < lcd.VisibleLines; line++ {
			expected = append(expected, run{lcd.OAM, 80}, run{lcd.VRAM, 172}, run{lcd.HBlank, 204})
		}
		expected = append(expected, run{lcd.VBlank, 4560})
	}
	expected[0].dots = 79
	runs = append(runs, current)
	expected = append(expected, run{lcd.OAM, 1})

	if len(runs) != len(expected) {
		t.Fatalf("expected %d mode runs, got %d", len(expected), len(runs))
	}
	for i := range runs {
		if runs[i] != expected[i] {
			t.Fatalf("run %d: expected %s for %d dots, got %s for %d dots", i, expected[i].mode, expected[i].dots, runs[i].mode, runs[i].dots)
		}
	}
}

func TestPPU_LineAndFrameLength(t *testing.T) {
	b, p := newTestPPU(types.DMGABC)
	b.Write(types.LCDC, 0x91)

	lines, last := 0, 0
	for i := 1; i <= lcd.FrameDots*3; i++ {
		before := p.LY()
		p.Tick()
		if p.LY() != before {
			if i-last != lcd.LineDots {
				t.Fatalf("line %d lasted %d dots", before, i-last)
			}
			if p.LY() != (before+1)%lcd.TotalLines {
				t.Fatalf("LY went from %d to %d", before, p.LY())
			}
			if b.Read(types.LY) != p.LY() {
				t.Fatalf("LY register %d does not mirror %d", b.Read(types.LY), p.LY())
			}
			last = i
			lines++
		}
	}

	if lines != lcd.TotalLines*3 {
		t.Errorf("expected %d lines in 3 frames, got %d", lcd.TotalLines*3, lines)
	}
}

func TestPPU_LCDCReadback(t *testing.T) {
	b, _ := newTestPPU(types.DMGABC)
	for _, v := range []uint8{0x00, 0x91, 0xE3, 0xFF} {
		b.Write(types.LCDC, v)
		if got := b.Read(types.LCDC); got != v {
			t.Errorf("wrote %02X, read %02X", v, got)
		}
	}
}

func TestPPU_Disable(t *testing.T) {
	b, p := newTestPPU(types.DMGABC)
	b.Write(types.LCDC, 0xB1) // window enabled
	b.Write(types.WY, 0)
	b.Write(types.WX, 7)

	tick(p, lcd.LineDots*50+100)
	if p.LY() != 50 || p.WindowLine() == 0 {
		t.Fatalf("unexpected state before disable: LY=%d WLY=%d", p.LY(), p.WindowLine())
	}

	b.Write(types.LCDC, 0x31)
	p.Tick()

	if p.Mode() != lcd.HBlank {
		t.Errorf("expected HBlank, got %s", p.Mode())
	}
	if p.LY() != 0 || b.Read(types.LY) != 0 {
		t.Errorf("expected LY=0, got %d (register %d)", p.LY(), b.Read(types.LY))
	}
	if p.WindowLine() != 0 {
		t.Errorf("expected window line 0, got %d", p.WindowLine())
	}
	if b.Read(types.STAT)&3 != 0 {
		t.Errorf("expected STAT mode 0, got %d", b.Read(types.STAT)&3)
	}

	// nothing advances whilst disabled
	tick(p, lcd.FrameDots)
	if p.LY() != 0 || p.Dots() != 0 || p.HasFrame() {
		t.Errorf("PPU advanced whilst disabled")
	}

	// re-enabling starts with a full line
	b.Write(types.LCDC, 0x91)
	tick(p, lcd.LineDots-1)
	if p.LY() != 0 {
		t.Errorf("expected line 0 to last %d dots", lcd.LineDots)
	}
	p.Tick()
	if p.LY() != 1 || p.Mode() != lcd.OAM {
		t.Errorf("expected line 1 OAM, got line %d %s", p.LY(), p.Mode())
	}
}

func TestPPU_LYCInterrupt(t *testing.T) {
	b, p := newTestPPU(types.DMGABC)
	b.Write(types.LYC, 10)
	b.Write(types.STAT, types.Bit6)
	b.Write(types.LCDC, 0x91)

	fired := map[uint8]int{}
	for i := 0; i < lcd.FrameDots*2; i++ {
		p.Tick()
		if b.Interrupts()&io.LCDINT != 0 {
			fired[p.LY()]++
			b.ClearBit(types.IF, io.LCDINT)
		}
		if p.LY() == 10 && b.Read(types.STAT)&types.Bit2 == 0 {
			t.Fatalf("coincidence flag clear on line 10")
		}
		if p.LY() != 10 && b.Read(types.STAT)&types.Bit2 != 0 {
			t.Fatalf("coincidence flag set on line %d", p.LY())
		}
	}

	if len(fired) != 1 || fired[10] != 2 {
		t.Errorf("expected exactly one interrupt on line 10 per frame, got %v", fired)
	}
}

func TestPPU_LYCWrite(t *testing.T) {
	b, p := newTestPPU(types.DMGABC)
	b.Write(types.STAT, types.Bit6)
	b.Write(types.LYC, 5)
	b.Write(types.LCDC, 0x91)
	tickUntilLY(t, p, 3)
	b.ClearBit(types.IF, io.LCDINT)

	b.Write(types.LYC, 3)
	if b.Interrupts()&io.LCDINT == 0 {
		t.Errorf("expected writing LYC=LY to request STAT")
	}
	b.ClearBit(types.IF, io.LCDINT)

	tick(p, 100)
	if b.Interrupts()&io.LCDINT != 0 {
		t.Errorf("STAT requested again for the same coincidence")
	}
}

func TestPPU_ModeInterrupts(t *testing.T) {
	tests := []struct {
		name     string
		stat     uint8
		expected int
	}{
		{"hblank", types.Bit3, lcd.VisibleLines},
		{"vblank", types.Bit4, 1},
		{"oam", types.Bit5, lcd.VisibleLines},
		{"none", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, p := newTestPPU(types.DMGABC)
			b.Write(types.LYC, 0xFF)
			b.Write(types.STAT, tt.stat)
			b.Write(types.LCDC, 0x91)

			stat, vblank := 0, 0
			for i := 0; i < lcd.FrameDots; i++ {
				p.Tick()
				if b.Interrupts()&io.LCDINT != 0 {
					stat++
				}
				if b.Interrupts()&io.VBlankINT != 0 {
					vblank++
				}
				b.ClearBit(types.IF, io.LCDINT|io.VBlankINT)
			}

			if stat != tt.expected {
				t.Errorf("expected %d STAT interrupts, got %d", tt.expected, stat)
			}
			if vblank != 1 {
				t.Errorf("expected 1 VBlank interrupt, got %d", vblank)
			}
		})
	}
}

func TestPPU_FrameReady(t *testing.T) {
	b, p := newTestPPU(types.DMGABC)
	b.Write(types.LCDC, 0x91)

	tick(p, lcd.LineDots*lcd.VisibleLines-1)
	if p.HasFrame() {
		t.Fatalf("frame ready before VBlank")
	}
	p.Tick()
	if !p.HasFrame() || p.Mode() != lcd.VBlank {
		t.Fatalf("expected frame ready on entering VBlank")
	}

	f := p.Frame()
	if p.HasFrame() {
		t.Errorf("Frame did not mark the frame as consumed")
	}

	// the copy must not change as the next frame is drawn
	b.Write(types.BGP, 0xFF)
	tick(p, lcd.FrameDots)
	if f[0][0] != white {
		t.Errorf("copied frame changed after further ticks")
	}
	if !p.HasFrame() || p.PreparedFrame[0][0] != black {
		t.Errorf("expected next frame to be black")
	}
}

func TestPPU_StateRoundTrip(t *testing.T) {
	b, p := newTestPPU(types.CGBABC)
	b.Write(types.LCDC, 0x93)
	b.Write(types.BCPS, 0x80)
	b.Write(types.BCPD, 0x1F)
	b.Write(types.STAT, types.Bit3)
	b.SetVRAM(0x8000, 0, 0xFF)
	tick(p, lcd.FrameDots+12345)
	b2, p2 := restore(t, b, p)

	if p2.LY() != p.LY() || p2.Mode() != p.Mode() || p2.Dots() != p.Dots() {
		t.Fatalf("timing not restored: %d/%s/%d vs %d/%s/%d", p2.LY(), p2.Mode(), p2.Dots(), p.LY(), p.Mode(), p.Dots())
	}
	if b2.Read(types.STAT) != b.Read(types.STAT) || b2.Read(types.BCPS) != b.Read(types.BCPS) {
		t.Fatalf("registers not restored")
	}

	tick(p, lcd.FrameDots)
	tick(p2, lcd.FrameDots)
	if p.PreparedFrame != p2.PreparedFrame {
		t.Errorf("restored PPU rendered a different frame")
	}
}

// restore copies b and p into a fresh bus and PPU of the same model.
func restore(t *testing.T, b *io.Bus, p *PPU) (*io.Bus, *PPU) {
	t.Helper()
	s := types.NewState()
	b.Save(s)
	p.Save(s)

	restored, err := types.StateFromBytes(s.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	b2, p2 := newTestPPU(b.Model())
	b2.Load(restored)
	p2.Load(restored)
	if err := restored.Err(); err != nil {
		t.Fatal(err)
	}
	return b2, p2
}

func TestPPU_StateMidFrame(t *testing.T) {
	b, p := newTestPPU(types.DMGABC)
	b.Write(types.BGP, 0xE4)
	b.Write(types.OBP0, 0xE4)
	b.Write(types.LCDC, 0x93)
	for row := uint16(0); row < 8; row++ {
		setTileRow(b, 0, 0x8010+row*2, 0xFF, 0xFF)
	}
	setObject(b, 0, 16+50, 8, 1, 0)

	// save part way through pixel transfer on line 50, after the
	// objects for the line have been picked
	tickUntilLY(t, p, 50)
	tick(p, 81)
	if p.Mode() != lcd.VRAM {
		t.Fatalf("expected to be in VRAM mode, got %s", p.Mode())
	}
	_, p2 := restore(t, b, p)

	for !p.HasFrame() {
		p.Tick()
	}
	for !p2.HasFrame() {
		p2.Tick()
	}

	if p2.PreparedFrame[0][0] != white {
		t.Errorf("line drawn before saving was lost: %v", p2.PreparedFrame[0][0])
	}
	if p2.PreparedFrame[50][0] != black {
		t.Errorf("object missing from line being drawn: %v", p2.PreparedFrame[50][0])
	}
	if p.PreparedFrame != p2.PreparedFrame {
		t.Errorf("restored PPU rendered a different frame")
	}
}

func TestPPU_TruncatedState(t *testing.T) {
	b, p := newTestPPU(types.DMGABC)
	s := types.NewState()
	b.Save(s)

	restored, err := types.StateFromBytes(s.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	b.Load(restored)
	p.Load(restored)
	if restored.Err() != types.ErrStateTruncated {
		t.Errorf("expected ErrStateTruncated, got %v", restored.Err())
	}
}

func BenchmarkPPU_Frame(b *testing.B) {
	bus, p := newTestPPU(types.CGBABC)
	bus.Write(types.LCDC, 0xF3)
	for i := 0; i < 40; i++ {
		bus.Set(types.OAMStart+uint16(i*4), uint8(16+i*3))
		bus.Set(types.OAMStart+uint16(i*4)+1, uint8(8+i*4))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tick(p, lcd.FrameDots)
	}
}
