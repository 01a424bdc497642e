package system

import (
	"context"
	"log/slog"

	"github.com/milk9111/locomotion/anim"
	"golang.org/x/sync/errgroup"
)

// LocomotionSystem ticks every character in a world. Each tick runs the
// movement step and the ordinary locomotion pass one character at a time,
// then every character's thread-safe pass and graph step concurrently.
type LocomotionSystem struct {
	world *World
	frame uint64
	log   *slog.Logger
}

func NewLocomotionSystem(world *World, log *slog.Logger) *LocomotionSystem {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &LocomotionSystem{world: world, log: log}
}

func (s *LocomotionSystem) Frame() uint64 { return s.frame }

func (s *LocomotionSystem) Update(ctx context.Context, dt float64) error {
	if s == nil || s.world == nil {
		return nil
	}
	s.frame++
	chars := s.world.Characters

	for _, c := range chars {
		if c.Input != nil {
			in, err := c.Input.Next(dt)
			if err != nil {
				return err
			}
			c.last = in
		}
		c.Body.Step(dt, c.last)
		c.Anim.Update(dt, s.frame)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, c := range chars {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c.Anim.ThreadSafeUpdate(dt)
			if c.Graph == nil {
				return nil
			}
			return c.Graph.Step(c.Anim, anim.NewUpdateContext(dt))
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error("locomotion: tick failed", "frame", s.frame, "err", err)
		return err
	}
	return nil
}
