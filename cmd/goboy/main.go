package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/thelolagemann/gomeboy-ppu/internal/gameboy"
	"github.com/thelolagemann/gomeboy-ppu/internal/ppu"
	"github.com/thelolagemann/gomeboy-ppu/internal/ppu/palette"
	"github.com/thelolagemann/gomeboy-ppu/internal/types"
	"github.com/thelolagemann/gomeboy-ppu/pkg/display/views"
	"github.com/thelolagemann/gomeboy-ppu/pkg/display/web"
	"github.com/thelolagemann/gomeboy-ppu/pkg/log"
	"github.com/thelolagemann/gomeboy-ppu/pkg/utils"
)

type config struct {
	state       string
	model       string
	frames      int
	out         string
	scale       int
	palette     string
	clipboard   bool
	serve       string
	compression int
	plot        string
	vram        string
	tilemap     string
	palettes    string
	save        string
	speed       float64
}

func main() {
	var cfg config
	flag.StringVar(&cfg.state, "state", "", "The state file to load (may be gzip, zip or 7z compressed)")
	flag.StringVar(&cfg.model, "model", "auto", "The model to emulate. Can be auto, dmg or cgb")
	flag.IntVar(&cfg.frames, "frames", 1, "The number of frames to render")
	flag.StringVar(&cfg.out, "out", "frame.png", "Where to write the last rendered frame")
	flag.IntVar(&cfg.scale, "scale", 1, "The factor to scale rendered images by")
	flag.StringVar(&cfg.palette, "palette", "greyscale", "The shade palette for DMG. Can be greyscale, green, red or yellow")
	flag.BoolVar(&cfg.clipboard, "clipboard", false, "Copy the rendered frame to the clipboard")
	flag.StringVar(&cfg.serve, "serve", "", "Stream frames to websocket clients on this address instead, e.g. :8090")
	flag.IntVar(&cfg.compression, "compression", 7, "The brotli quality for streamed frames, -1 to disable")
	flag.StringVar(&cfg.plot, "plot", "", "Where to write a plot of frame times, when finished or stopped")
	flag.StringVar(&cfg.vram, "vram", "", "Where to write the tiles in VRAM")
	flag.StringVar(&cfg.tilemap, "tilemap", "", "Where to write the background tilemap")
	flag.StringVar(&cfg.palettes, "palettes", "", "Where to write the CGB background palettes")
	flag.StringVar(&cfg.save, "save", "", "Where to save the state once finished")
	flag.Float64Var(&cfg.speed, "speed", 1, "The speed to run the emulator at when streaming")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logger := log.New(os.Stderr, *debug)
	if err := run(logger, cfg); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(logger log.Logger, cfg config) error {
	if cfg.frames < 1 {
		return fmt.Errorf("frames must be at least 1, got %d", cfg.frames)
	}
	if cfg.scale < 1 {
		return fmt.Errorf("scale must be at least 1, got %d", cfg.scale)
	}

	pal, err := palette.ByName(cfg.palette)
	if err != nil {
		return err
	}

	opts := []gameboy.Opt{
		gameboy.WithLogger(logger),
		gameboy.AsModel(types.StringToModel(cfg.model)),
		gameboy.WithPalette(pal),
		gameboy.Speed(cfg.speed),
	}
	if cfg.state != "" {
		state, err := utils.LoadFile(cfg.state)
		if err != nil {
			return fmt.Errorf("loading state: %w", err)
		}
		opts = append(opts, gameboy.WithState(state))
	}

	gb, err := gameboy.NewGameBoy(opts...)
	if err != nil {
		return err
	}

	if cfg.serve != "" {
		return serve(logger, gb, cfg)
	}
	return render(logger, gb, cfg)
}

func serve(logger log.Logger, gb *gameboy.GameBoy, cfg config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// keep the last minute of frame times
	perf := views.NewPerformance(3600)
	gb.OnFrame(func(ppu.Frame) {
		perf.Frame()
	})

	opts := []web.Opt{
		web.WithLogger(log.WithField(logger, "component", "web")),
		web.WithFramePatching(1),
		web.WithFrameSkipping(),
	}
	if cfg.compression >= 0 {
		opts = append(opts, web.WithCompression(cfg.compression))
	}

	if err := web.NewHub(gb, opts...).ListenAndServe(ctx, cfg.serve); err != nil {
		return err
	}
	if err := plot(perf, cfg); err != nil {
		return err
	}
	return save(logger, gb, cfg)
}

func render(logger log.Logger, gb *gameboy.GameBoy, cfg config) error {
	perf := views.NewPerformance(cfg.frames)

	var f ppu.Frame
	for i := 0; i < cfg.frames; i++ {
		start := time.Now()
		f = gb.Frame()
		perf.Record(time.Since(start))
	}
	logger.Infof("rendered %d frames", cfg.frames)

	img, err := utils.ImageFromRGB(ppu.ScreenWidth, ppu.ScreenHeight, f.Bytes())
	if err != nil {
		return err
	}
	frame := utils.ScaleImage(img, cfg.scale)
	if err := utils.SaveImage(frame, cfg.out); err != nil {
		return err
	}
	logger.Infof("wrote frame to %s", cfg.out)

	if cfg.clipboard {
		if err := utils.CopyImage(frame); err != nil {
			logger.Warnf("copying frame to clipboard: %v", err)
		}
	}

	if err := plot(perf, cfg); err != nil {
		return err
	}

	bgp := palette.ByteToPalette(gb.Bus().Get(types.BGP))
	shade := func(index uint8) [3]uint8 {
		return bgp[index&3]
	}
	if cfg.vram != "" {
		if err := utils.SaveImage(utils.ScaleImage(views.Tiles(gb.Bus(), gb.Bus().VRAMBank(), shade), cfg.scale), cfg.vram); err != nil {
			return err
		}
	}
	if cfg.tilemap != "" {
		lcdc := gb.Bus().Get(types.LCDC)
		base := uint16(0x9800)
		if lcdc&types.Bit3 != 0 {
			base = 0x9C00
		}
		tilemap := views.Tilemap(gb.Bus(), base, lcdc&types.Bit4 == 0, shade)
		if err := utils.SaveImage(utils.ScaleImage(tilemap, cfg.scale), cfg.tilemap); err != nil {
			return err
		}
	}

	if cfg.palettes != "" {
		if !gb.Model().IsColour() {
			logger.Warnf("%s has no palette memory, skipping palette dump", gb.Model())
		} else if err := utils.SaveImage(gb.PPU.BackgroundPalette().Image(16*cfg.scale), cfg.palettes); err != nil {
			return err
		}
	}

	return save(logger, gb, cfg)
}

func plot(perf *views.Performance, cfg config) error {
	if cfg.plot == "" {
		return nil
	}
	img, err := perf.Image(640, 480)
	if err != nil {
		return fmt.Errorf("plotting frame times: %w", err)
	}
	return utils.SaveImage(img, cfg.plot)
}

func save(logger log.Logger, gb *gameboy.GameBoy, cfg config) error {
	if cfg.save == "" {
		return nil
	}
	if err := gb.Save().SaveToFile(cfg.save); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	logger.Infof("saved state to %s", cfg.save)
	return nil
}
