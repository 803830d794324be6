package inspect

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"epubdeco/decoration"
	"epubdeco/scene"
)

type changeOut struct {
	Kind  string `yaml:"kind"`
	ID    string `yaml:"id"`
	From  *int   `yaml:"from,omitempty"`
	To    *int   `yaml:"to,omitempty"`
	Style string `yaml:"style,omitempty"`
}

type resourceOut struct {
	Href    string      `yaml:"href"`
	Changes []changeOut `yaml:"changes"`
	// ids after replaying changes
	Result []string `yaml:"result"`
}

type groupOut struct {
	Group     string        `yaml:"group"`
	Resources []resourceOut `yaml:"resources"`
}

func index(i int) *int {
	if i < 0 {
		return nil
	}
	return &i
}

// diffScene computes changes from previous to current lists of every group.
func diffScene(ctx context.Context, s *scene.Scene, opts ...decoration.DiffOption) ([]groupOut, error) {
	pairs := make(map[string]decoration.Pair)
	for _, group := range s.Groups() {
		pairs[group] = decoration.Pair{Old: s.Previous[group], New: s.Decorations[group]}
	}
	res, err := decoration.DiffGroups(ctx, pairs, opts...)
	if err != nil {
		return nil, err
	}

	out := make([]groupOut, 0, len(res))
	for _, group := range s.Groups() {
		changes := res[group]
		replayed, err := decoration.Patch(pairs[group].Old, changes)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", group, err)
		}
		g := groupOut{Group: group, Resources: []resourceOut{}}
		for _, href := range changes.Hrefs() {
			r := resourceOut{Href: href, Result: []string{}}
			for _, d := range replayed[href] {
				r.Result = append(r.Result, d.ID)
			}
			for _, ch := range changes[href] {
				c := changeOut{Kind: ch.Kind.String(), ID: ch.ID, From: index(ch.From), To: index(ch.To)}
				if ch.Decoration != nil {
					c.Style = ch.Decoration.Style.String()
				}
				r.Changes = append(r.Changes, c)
			}
			g.Resources = append(g.Resources, r)
		}
		out = append(out, g)
	}
	return out, nil
}

// Diff prints changes between previous and current decorations of a scene.
func Diff(ctx context.Context, cmd *cli.Command) error {
	env, log, err := configured(ctx, cmd, "diff")
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

	var opts []decoration.DiffOption
	if env.Cfg.Engine.CompareExtras || cmd.Bool("extras") {
		opts = append(opts, decoration.WithExtras())
	}
	out, err := diffScene(ctx, s, opts...)
	if err != nil {
		return err
	}
	if err := env.Rpt.StoreYAML("output/scene.yaml", s); err != nil {
		log.Warn("Unable to store parsed scene in report", zap.Error(err))
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("unable to marshal changes: %w", err)
	}
	log.Debug("Changes computed", zap.Int("groups", len(out)))
	return output(env, dst, "changes.yaml", data, log)
}
