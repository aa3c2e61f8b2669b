package web

import (
	"bytes"
	"context"
	"encoding/binary"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/thelolagemann/gomeboy-ppu/internal/gameboy"
	"github.com/thelolagemann/gomeboy-ppu/internal/ppu"
)

const (
	pixels = ppu.ScreenWidth * ppu.ScreenHeight
	// patchRatioStep is the number of changed pixels each step of
	// FramePatchRatio allows before a full frame is sent instead.
	patchRatioStep = pixels / 5
	cacheSize      = 64
)

// Player runs the machine and turns its frames into stream messages.
type Player struct {
	hub *Hub
	gb  *gameboy.GameBoy

	c   *Client // controlling client
	cmu sync.Mutex

	// PPU changes requested by the controlling client, applied
	// between frames on the machine's goroutine
	pending chan func(*ppu.PPU)

	patchCache, frameCache *cache
	currentFrame           []byte // RGBA
	dirtied                []byte // RGBA, changed pixels only
	framesSkipped          uint32

	mu sync.Mutex
}

func newPlayer(h *Hub, gb *gameboy.GameBoy) *Player {
	p := &Player{
		hub:          h,
		gb:           gb,
		pending:      make(chan func(*ppu.PPU), 16),
		patchCache:   newCache(cacheSize),
		frameCache:   newCache(cacheSize),
		currentFrame: make([]byte, pixels*4),
		dirtied:      make([]byte, pixels*4),
	}
	gb.OnFrame(func(ppu.Frame) {
		p.applyPending()
	})

	return p
}

// Start runs the machine until ctx is done, broadcasting every frame.
func (p *Player) Start(ctx context.Context) {
	fb := make(chan []byte, 1)
	go func() {
		if err := p.gb.Start(ctx, fb); err != nil {
			p.hub.log.Errorf("machine stopped: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case f := <-fb:
			for _, msg := range p.encode(f) {
				p.hub.SendAll(msg)
			}
		}
	}
}

// encode turns a packed RGB frame into the messages needed to bring
// the clients up to date with it. Unchanged frames produce nothing
// when frame skipping is on.
func (p *Player) encode(f []byte) [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.hub.config()

	changed := 0
	for i := 0; i < pixels; i++ {
		rgb, rgba := f[i*3:i*3+3], p.currentFrame[i*4:i*4+4]
		if rgba[0] != rgb[0] || rgba[1] != rgb[1] || rgba[2] != rgb[2] || rgba[3] == 0 {
			copy(p.dirtied[i*4:], rgb)
			p.dirtied[i*4+3] = 255
			changed++
		}
		copy(rgba, rgb)
		rgba[3] = 255
	}
	defer clear(p.dirtied)

	if changed == 0 && s.FrameSkipping {
		p.framesSkipped++
		return nil
	}

	var msgs [][]byte
	if p.framesSkipped > 0 {
		msgs = append(msgs, binary.LittleEndian.AppendUint32([]byte{FrameSkip}, p.framesSkipped))
		p.framesSkipped = 0
	}

	// patch the frame if few enough pixels changed
	t, cached, buffer, c := Frame, FrameCache, p.currentFrame, p.frameCache
	if s.FramePatching && changed < s.FramePatchRatio*patchRatioStep {
		t, cached, buffer, c = FramePatch, PatchCache, p.dirtied, p.patchCache
	}

	output := append([]byte(nil), buffer...)
	if s.Compression {
		var err error
		if output, err = compress(buffer, s.CompressionLevel); err != nil {
			p.hub.log.Errorf("compressing frame: %v", err)
			return msgs
		}
	}

	idx, hit := c.lookup(output)
	if hit {
		return append(msgs, binary.LittleEndian.AppendUint16([]byte{cached}, uint16(idx)))
	}
	return append(msgs, append(binary.LittleEndian.AppendUint16([]byte{t}, uint16(idx)), output...))
}

// sync sends the current frame and both caches to a newly connected
// client.
func (p *Player) sync(c *Client) {
	p.mu.Lock()
	frameData, err := compress(p.currentFrame, 9)
	p.mu.Unlock()
	if err != nil {
		p.hub.log.Errorf("compressing frame for client %d: %v", c.ID, err)
		return
	}

	c.trySend(append([]byte{FrameSync}, frameData...))
	c.trySend(append([]byte{PatchCacheSync}, p.patchCache.sync()...))
	c.trySend(append([]byte{FrameCacheSync}, p.frameCache.sync()...))
}

// control handles a message from c, if c is the controlling client.
func (p *Player) control(c *Client, msg []byte) {
	if p.controller() != c {
		return
	}

	switch msg[0] {
	case Pause:
		p.gb.Pause()
		p.hub.SendAll([]byte{PlayerInfo, PausePlay, 0})
	case Unpause:
		p.gb.Unpause()
		p.hub.SendAll([]byte{PlayerInfo, PausePlay, 1})
	case Layer:
		if len(msg) < 3 {
			return
		}
		disabled := msg[2] == 0

		var event PlayerEvent
		var apply func(*ppu.PPU)
		switch msg[1] {
		case LayerBackground:
			event, apply = BackgroundEnabled, func(v *ppu.PPU) { v.Debug.BackgroundDisabled = disabled }
		case LayerWindow:
			event, apply = WindowEnabled, func(v *ppu.PPU) { v.Debug.WindowDisabled = disabled }
		case LayerOBJ:
			event, apply = OBJEnabled, func(v *ppu.PPU) { v.Debug.OBJDisabled = disabled }
		default:
			return
		}

		select {
		case p.pending <- apply:
			p.hub.SendAll([]byte{PlayerInfo, event, msg[2]})
		default:
			p.hub.log.Warnf("dropping layer toggle from client %d", c.ID)
		}
	}
}

// applyPending applies the queued PPU changes.
func (p *Player) applyPending() {
	for {
		select {
		case apply := <-p.pending:
			apply(p.gb.PPU)
		default:
			return
		}
	}
}

func (p *Player) controller() *Client {
	p.cmu.Lock()
	defer p.cmu.Unlock()
	return p.c
}

// setController hands control of the machine to c, which may be nil.
func (p *Player) setController(c *Client) {
	p.cmu.Lock()
	p.c = c
	p.cmu.Unlock()

	if c != nil {
		c.trySend([]byte{PlayerIdentify, c.ID})
	}
}

// compress brotli compresses data at the given quality.
func compress(data []byte, quality int) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, quality)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
