package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/healthbar/common"
	"github.com/milk9111/healthbar/health"
)

const (
	barX      = 40
	barY      = 30
	barWidth  = common.BaseWidth - 2*barX
	barHeight = 26
	barGap    = 3

	flashFrames = 8
	fillEase    = 0.25
)

var classColors = map[health.HealthClass]color.RGBA{
	health.ClassShield: colornames.Steelblue,
	health.ClassArmour: colornames.Silver,
	health.ClassFlesh:  colornames.Indianred,
}

func classColor(c health.HealthClass) color.RGBA {
	if clr, ok := classColors[c]; ok {
		return clr
	}
	// Classes introduced purely by configuration still get drawn.
	return colornames.Mediumpurple
}

func colorRGB(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// HUD draws the dummy's layered health bar. Segment widths are
// proportional to each segment's maximum; fills ease toward the live
// fraction so drains read as motion, and recently hit segments flash.
type HUD struct {
	dummy  *health.Damageable
	smooth []float64
	flash  []int
}

// NewHUD creates a HUD for the given damageable.
func NewHUD(d *health.Damageable) *HUD {
	return &HUD{dummy: d}
}

// Flash marks a segment as recently hit.
func (h *HUD) Flash(segment int) {
	if h == nil || segment < 0 {
		return
	}
	h.ensureLen()
	if segment < len(h.flash) {
		h.flash[segment] = flashFrames
	}
}

// Update advances fill easing and flash timers. Call once per frame.
func (h *HUD) Update() {
	if h == nil || h.dummy == nil {
		return
	}
	h.ensureLen()
	h.dummy.EachSegment(func(i int, s health.Segment) bool {
		h.smooth[i] = common.Lerp(h.smooth[i], s.Fraction(), fillEase)
		return true
	})
	for i := range h.flash {
		if h.flash[i] > 0 {
			h.flash[i]--
		}
	}
}

// Draw renders the bar.
func (h *HUD) Draw(screen *ebiten.Image) {
	if h == nil || h.dummy == nil {
		return
	}
	h.ensureLen()

	totalMax := h.dummy.MaximumHealth()
	if totalMax <= 0 {
		return
	}

	gaps := float64((h.dummy.SegmentCount() - 1) * barGap)
	usable := float64(barWidth) - gaps

	x := float64(barX)
	h.dummy.EachSegment(func(i int, s health.Segment) bool {
		w := usable * s.Max / totalMax
		fill := common.Clamp01(h.smooth[i])

		vector.FillRect(screen, float32(x), barY, float32(w), barHeight, colornames.Black, false)
		if fill > 0 {
			clr := classColor(s.Class)
			if h.flash[i] > 0 {
				clr = colornames.White
			}
			vector.FillRect(screen, float32(x), barY, float32(w*fill), barHeight, clr, false)
		}
		vector.StrokeRect(screen, float32(x), barY, float32(w), barHeight, 1.5, colornames.Gainsboro, false)

		x += w + barGap
		return true
	})
}

// ensureLen resizes per-segment state after Append/RemoveLast on the dummy.
func (h *HUD) ensureLen() {
	n := h.dummy.SegmentCount()
	for len(h.smooth) < n {
		idx := len(h.smooth)
		seg := h.dummy.Segment(idx)
		h.smooth = append(h.smooth, seg.Fraction())
		h.flash = append(h.flash, 0)
	}
	if len(h.smooth) > n {
		h.smooth = h.smooth[:n]
		h.flash = h.flash[:n]
	}
}
