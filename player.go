package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/engine/ecs"
	"github.com/milk9111/engine/ecs/component"
	"github.com/milk9111/engine/physics"
)

const (
	moveSpeed             = 120
	jumpSpeed             = -260
	jumpBufferTimerAmount = 6 // fixed steps
	coyoteTimeFrames      = 5 // allow jump within this many steps after leaving ground
)

var playerKind = ecs.NewEntityKind("player", func() any { return &player{} })

// player moves its body from keyboard input. Input is sampled on Update and
// applied on physics steps.
type player struct {
	body *physics.Body

	moveX      float64
	jumpBuffer int
	coyote     int
}

func (p *player) OnCreate(ctx ecs.Ctx) {
	p.body, _ = component.Get(ctx.Registry(), ctx.Entity(), physics.BodyComponent)
}

func (p *player) OnUpdate(ctx ecs.Ctx) {
	p.moveX = 0
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		p.moveX--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		p.moveX++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		p.jumpBuffer = jumpBufferTimerAmount
	}
}

func (p *player) OnPhysicsUpdate(ctx ecs.Ctx, s *physics.Space) {
	if p.body == nil {
		return
	}
	if p.body.Grounded {
		p.coyote = coyoteTimeFrames
	} else if p.coyote > 0 {
		p.coyote--
	}

	_, vy := p.body.Velocity()
	if p.jumpBuffer > 0 {
		p.jumpBuffer--
		if p.coyote > 0 {
			vy = jumpSpeed
			p.coyote = 0
			p.jumpBuffer = 0
		}
	}
	p.body.SetVelocity(p.moveX*moveSpeed, vy)
}

func (p *player) OnDestroy(ecs.Ctx) {
	p.body = nil
}
