package export

import (
	"archive/zip"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"github.com/hydroviz/hydroviz/internal/core/session"
	"github.com/hydroviz/hydroviz/internal/render"
	"github.com/hydroviz/hydroviz/internal/util"
)

// FrameOptions configures a frame export run.
type FrameOptions struct {
	Variable      string
	Stride        int
	Width         int
	Height        int
	Window        render.ColorWindow
	WithArrows    bool
	VectorType    string
	ScaleExponent float64
	MaxArrows     int
	GIF           bool
	// Delay is the fixed pause between frames; the export is sequential
	// and self-throttled, with progress as the only backpressure signal.
	Delay time.Duration
}

type frameManifest struct {
	Variable string    `json:"variable"`
	Times    []float64 `json:"times"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Stride   int       `json:"stride"`
}

// ExportFrames renders one PNG heatmap frame per sampled time step and
// bundles the frames plus a manifest into a zip archive at outPath.
// With GIF enabled an assembled animation joins the archive.
func ExportFrames(sess *session.Session, opts FrameOptions, outPath string) error {
	times := sess.Times()
	if len(times) == 0 {
		return fmt.Errorf("no scalar file loaded")
	}
	if opts.Stride <= 0 {
		opts.Stride = 1
	}
	if opts.Width <= 0 {
		opts.Width = 640
	}
	if opts.Height <= 0 {
		opts.Height = 480
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	archive := zip.NewWriter(out)
	defer archive.Close()

	var (
		sampled   []float64
		gifFrames []*image.Paletted
	)
	total := (len(times) + opts.Stride - 1) / opts.Stride
	start := time.Now()

	for i := 0; i < len(times); i += opts.Stride {
		t := times[i]

		g, err := sess.GridAt(t, opts.Variable)
		if err != nil {
			util.LogWarn(fmt.Sprintf("Skipping frame at t=%s: %v", util.FormatTimeValue(t), err))
			continue
		}
		payload := render.NewPayload(g, opts.Window)
		if opts.WithArrows {
			if arrows, vt, err := sess.ArrowsAt(t, opts.VectorType, opts.ScaleExponent, opts.MaxArrows); err == nil {
				payload.WithArrows(arrows, vt, opts.VectorType)
			}
		}

		frame := render.RenderFrame(payload, opts.Width, opts.Height)

		entry, err := archive.Create(fmt.Sprintf("frame_%04d.png", len(sampled)))
		if err != nil {
			return err
		}
		if err := png.Encode(entry, frame); err != nil {
			return err
		}

		if opts.GIF {
			gifFrames = append(gifFrames, quantize(frame))
		}

		sampled = append(sampled, t)
		util.LogInfo(fmt.Sprintf("Exported frame %d/%d %s",
			len(sampled), total, util.CreateProgressBar(float64(len(sampled))/float64(total)*100, 20)))

		// Fixed inter-frame pause; lets a live renderer keep up when the
		// export drives an attached display.
		if opts.Delay > 0 && i+opts.Stride < len(times) {
			time.Sleep(opts.Delay)
		}
	}

	if len(sampled) == 0 {
		return fmt.Errorf("no frames exported")
	}

	if opts.GIF {
		entry, err := archive.Create("animation.gif")
		if err != nil {
			return err
		}
		anim := &gif.GIF{}
		for _, frame := range gifFrames {
			anim.Image = append(anim.Image, frame)
			anim.Delay = append(anim.Delay, 20) // hundredths of a second
		}
		if err := gif.EncodeAll(entry, anim); err != nil {
			return err
		}
	}

	manifest, err := sonic.MarshalIndent(frameManifest{
		Variable: opts.Variable,
		Times:    sampled,
		Width:    opts.Width,
		Height:   opts.Height,
		Stride:   opts.Stride,
	}, "", "  ")
	if err != nil {
		return err
	}
	entry, err := archive.Create("manifest.json")
	if err != nil {
		return err
	}
	if _, err := entry.Write(manifest); err != nil {
		return err
	}

	util.LogInfo(fmt.Sprintf("Frame export complete: %d frames in %v -> %s",
		len(sampled), time.Since(start), outPath))

	return nil
}

// ramp256 is a 256-color palette covering the heat ramp plus neutrals.
var ramp256 = func() color.Palette {
	palette := make(color.Palette, 0, 256)
	palette = append(palette, color.RGBA{A: 0xff})                            // black
	palette = append(palette, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) // white
	palette = append(palette, color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}) // missing
	palette = append(palette, color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}) // border
	for i := 0; i < 252; i++ {
		palette = append(palette, render.RampColor(float64(i), 0, 251))
	}
	return palette
}()

func quantize(frame *image.RGBA) *image.Paletted {
	p := image.NewPaletted(frame.Bounds(), ramp256)
	draw.Draw(p, frame.Bounds(), frame, frame.Bounds().Min, draw.Src)
	return p
}
