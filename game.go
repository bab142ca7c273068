package main

import (
	"fmt"
	"log"
	"math/rand"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/colornames"

	"github.com/ebitenui/ebitenui"

	"github.com/milk9111/healthbar/common"
	"github.com/milk9111/healthbar/health"
	"github.com/milk9111/healthbar/rules"
)

const (
	collisionTypeProjectile cp.CollisionType = iota + 1
	collisionTypeDummy
)

const (
	gravity       = 900.0
	floorY        = common.BaseHeight - 80
	dummyX        = common.BaseWidth - 280
	dummyWidth    = 60
	dummyHeight   = 160
	projectileTTL = 60 * 8 // frames before an idle projectile is culled
)

// projectileKind maps a launch key to the damage event it carries.
type projectileKind struct {
	name   string
	class  health.DamageClass
	amount float64
	radius float64
	color  [3]uint8
}

var projectileKinds = []struct {
	key  ebiten.Key
	kind projectileKind
}{
	{ebiten.Key1, projectileKind{name: "slash", class: health.DamageSlash, amount: 30, radius: 8, color: [3]uint8{0xdc, 0xdc, 0xdc}}},
	{ebiten.Key2, projectileKind{name: "impact", class: health.DamageImpact, amount: 50, radius: 14, color: [3]uint8{0xb0, 0xc4, 0xde}}},
	{ebiten.Key3, projectileKind{name: "fire", class: health.DamageFire, amount: 20, radius: 10, color: [3]uint8{0xff, 0xa5, 0x00}}},
	{ebiten.Key4, projectileKind{name: "pierce", class: health.DamagePierce, amount: 40, radius: 6, color: [3]uint8{0xf0, 0xe6, 0x8c}}},
}

type projectile struct {
	body  *cp.Body
	shape *cp.Shape
	kind  projectileKind
	age   int
}

// Game is the training-dummy range: projectiles launched from the left
// strike a segmented dummy whose layered health bar shows how the reaction
// table resolves each hit.
type Game struct {
	frames int
	debug  bool

	space       *cp.Space
	projectiles map[*cp.Shape]*projectile

	dummy   *health.Damageable
	deaths  int
	lastHit string

	rulesFile string
	watcher   *rules.Watcher

	hud *HUD
	ui  *ebitenui.UI
}

// NewGame builds the reaction table, the dummy, and the physics space.
func NewGame(rulesFile string, debug bool) (*Game, error) {
	file := rulesFile
	if file == "" {
		file = rules.DefaultRulesFile
	}
	table, err := rules.BuildTableFile(file)
	if err != nil {
		return nil, err
	}
	log.Printf("loaded %d reaction pairs from %s", table.Len(), file)

	dummy, err := health.NewDamageable(table,
		health.NewSegment(health.ClassShield, 50),
		health.NewSegment(health.ClassArmour, 120),
		health.NewSegment(health.ClassFlesh, 200),
	)
	if err != nil {
		return nil, err
	}

	g := &Game{
		debug:       debug,
		projectiles: make(map[*cp.Shape]*projectile),
		dummy:       dummy,
		rulesFile:   rulesFile,
		hud:         NewHUD(dummy),
	}

	dummy.OnDeath(func() {
		g.deaths++
		log.Printf("dummy down (death #%d)", g.deaths)
	})
	dummy.Events().Subscribe(g.onCombatEvent)

	g.space = cp.NewSpace()
	g.space.Iterations = 10
	g.space.SetGravity(cp.Vector{X: 0, Y: gravity})

	floor := cp.NewSegment(g.space.StaticBody, cp.Vector{X: 0, Y: floorY}, cp.Vector{X: common.BaseWidth, Y: floorY}, 4)
	floor.SetElasticity(0.4)
	floor.SetFriction(0.8)
	g.space.AddShape(floor)

	dummyBB := cp.BB{L: dummyX, B: floorY - dummyHeight, R: dummyX + dummyWidth, T: floorY}
	dummyShape := cp.NewBox2(g.space.StaticBody, dummyBB, 0)
	dummyShape.SetCollisionType(collisionTypeDummy)
	g.space.AddShape(dummyShape)

	handler := g.space.NewCollisionHandler(collisionTypeProjectile, collisionTypeDummy)
	handler.UserData = g
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		game := userData.(*Game)
		shape, _ := arb.Shapes()
		game.hitDummy(shape)
		// The dummy soaks the hit; no physical response.
		return false
	}

	if rulesFile != "" {
		w, err := rules.NewWatcher(filepath.Dir(rulesFile))
		if err != nil {
			log.Printf("rules watcher disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	g.ui = NewControlPanel(g)
	return g, nil
}

// Close releases the rules watcher.
func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++
	g.ui.Update()
	g.drainWatcher()

	for _, pk := range projectileKinds {
		if inpututil.IsKeyJustPressed(pk.key) {
			g.spawnProjectile(pk.kind)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.dummy.Heal(50)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reset()
	}

	g.space.Step(1.0 / 60.0)
	g.cullProjectiles()
	g.hud.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)

	vector.StrokeLine(screen, 0, floorY, common.BaseWidth, floorY, 4, colornames.Gray, true)

	dummyColor := colornames.Peru
	if g.dummy.CurrentHealth() <= 0 {
		dummyColor = colornames.Dimgray
	}
	vector.FillRect(screen, dummyX, floorY-dummyHeight, dummyWidth, dummyHeight, dummyColor, false)
	vector.StrokeRect(screen, dummyX, floorY-dummyHeight, dummyWidth, dummyHeight, 2, colornames.Black, false)

	for _, p := range g.projectiles {
		pos := p.body.Position()
		c := p.kind.color
		vector.FillCircle(screen, float32(pos.X), float32(pos.Y), float32(p.kind.radius), colorRGB(c[0], c[1], c[2]), true)
	}

	g.hud.Draw(screen)
	g.ui.Draw(screen)

	if g.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"FPS: %.1f\nhealth: %.0f/%.0f\nsegments: %d\ndeaths: %d\nlast hit: %s\n1-4 fire projectiles, H heal, R reset",
			ebiten.ActualFPS(),
			g.dummy.CurrentHealth(), g.dummy.MaximumHealth(),
			g.dummy.SegmentCount(), g.deaths, g.lastHit,
		))
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) spawnProjectile(kind projectileKind) {
	const mass = 1.0
	moment := cp.MomentForCircle(mass, 0, kind.radius, cp.Vector{})
	body := cp.NewBody(mass, moment)
	body.SetPosition(cp.Vector{X: 80, Y: floorY - 260})
	body.SetVelocity(600+rand.Float64()*200, -150-rand.Float64()*150)
	g.space.AddBody(body)

	shape := cp.NewCircle(body, kind.radius, cp.Vector{})
	shape.SetElasticity(0.3)
	shape.SetFriction(0.6)
	shape.SetCollisionType(collisionTypeProjectile)
	g.space.AddShape(shape)

	g.projectiles[shape] = &projectile{body: body, shape: shape, kind: kind}
}

func (g *Game) hitDummy(shape *cp.Shape) {
	p, ok := g.projectiles[shape]
	if !ok {
		return
	}
	g.dummy.Damage(p.kind.amount, p.kind.class)
	g.space.AddPostStepCallback(func(space *cp.Space, key interface{}, _ interface{}) {
		g.destroyProjectile(key.(*cp.Shape))
	}, shape, nil)
}

func (g *Game) destroyProjectile(shape *cp.Shape) {
	p, ok := g.projectiles[shape]
	if !ok {
		return
	}
	g.space.RemoveShape(p.shape)
	g.space.RemoveBody(p.body)
	delete(g.projectiles, shape)
}

func (g *Game) cullProjectiles() {
	for shape, p := range g.projectiles {
		p.age++
		pos := p.body.Position()
		if p.age > projectileTTL || pos.X < -50 || pos.X > common.BaseWidth+50 || pos.Y > common.BaseHeight+100 {
			g.destroyProjectile(shape)
		}
	}
}

func (g *Game) reset() {
	g.dummy.Heal(g.dummy.MaximumHealth())
	g.lastHit = ""
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case _, ok := <-g.watcher.Events:
			if !ok {
				return
			}
			changed = true
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("rules watcher: %v", err)
			}
		default:
			if changed {
				g.reloadRules()
			}
			return
		}
	}
}

func (g *Game) reloadRules() {
	table, err := rules.BuildTableFile(g.rulesFile)
	if err != nil {
		// Keep fighting with the old table until the file parses again.
		log.Printf("rules reload failed: %v", err)
		return
	}
	g.dummy.SetReactionTable(table)
	log.Printf("reloaded %d reaction pairs from %s", table.Len(), g.rulesFile)
}

func (g *Game) onCombatEvent(evt health.Event) {
	switch evt.Type {
	case health.EventDamageApplied:
		g.lastHit = fmt.Sprintf("%s -> segment %d for %.0f", evt.Class, evt.SegmentIndex, evt.Amount)
		g.hud.Flash(evt.SegmentIndex)
	case health.EventSegmentDepleted:
		g.hud.Flash(evt.SegmentIndex)
	}
}
