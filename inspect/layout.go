package inspect

import (
	"context"
	"fmt"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"epubdeco/decoration"
	"epubdeco/geom"
)

// Layout draws scene decorations and prints resulting overlay document.
func Layout(ctx context.Context, cmd *cli.Command) error {
	env, log, err := configured(ctx, cmd, "layout")
	if err != nil {
		return err
	}
	src, dst, err := arguments(cmd, log)
	if err != nil {
		return err
	}
	s, err := loadScene(env, src, log)
	if err != nil {
		return err
	}
	ss, err := newSession(ctx, env, s, log)
	if err != nil {
		return err
	}
	env.Rpt.StoreData("output/engine.txt", []byte(ss.engine.String()))

	var sb strings.Builder
	if _, err := ss.surface.WriteTo(&sb); err != nil {
		return fmt.Errorf("unable to serialize overlay: %w", err)
	}
	return output(env, dst, "overlay.xhtml", []byte(sb.String()), log)
}

type hitOut struct {
	X          float64    `yaml:"x"`
	Y          float64    `yaml:"y"`
	Group      string     `yaml:"group,omitempty"`
	Decoration string     `yaml:"decoration,omitempty"`
	Rect       *geom.Rect `yaml:"rect,omitempty"`
}

// Hit draws scene decorations and hit tests scene pointer positions.
func Hit(ctx context.Context, cmd *cli.Command) error {
	env, log, err := configured(ctx, cmd, "hit")
	if err != nil {
		return err
	}
	src, dst, err := arguments(cmd, log)
	if err != nil {
		return err
	}
	s, err := loadScene(env, src, log)
	if err != nil {
		return err
	}
	ss, err := newSession(ctx, env, s, log)
	if err != nil {
		return err
	}
	for _, group := range ss.engine.Groups() {
		ss.engine.AddListener(group, func(group string, d decoration.Decoration, rect geom.Rect) {
			log.Info("Decoration activated", zap.String("group", group), zap.String("id", d.ID), zap.Stringer("rect", rect))
		})
	}

	out := make([]hitOut, 0, len(s.Hits))
	for _, p := range s.Hits {
		res := hitOut{X: p.X, Y: p.Y}
		if hit := ss.engine.HandleHit(p.X, p.Y); hit != nil {
			res.Group, res.Decoration, res.Rect = hit.Group, hit.Decoration.ID, &hit.Rect
		}
		out = append(out, res)
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("unable to marshal hits: %w", err)
	}
	return output(env, dst, "hits.yaml", data, log)
}
