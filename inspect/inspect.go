// Package inspect implements command line actions running decoration engine
// over scene files.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"epubdeco/config"
	"epubdeco/engine"
	"epubdeco/overlay"
	"epubdeco/scene"
	"epubdeco/state"
)

// session is an engine set up over a scene.
type session struct {
	scene   *scene.Scene
	doc     *scene.Document
	surface *overlay.Document
	engine  *engine.Engine
}

// arguments returns scene path and optional destination.
func arguments(cmd *cli.Command, log *zap.Logger) (string, string, error) {
	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return "", "", errors.New("no scene has been specified")
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	return src, cmd.Args().Get(1), nil
}

func loadScene(env *state.LocalEnv, path string, log *zap.Logger) (*scene.Scene, error) {
	s, err := scene.Load(path, log)
	if err != nil {
		return nil, err
	}
	if err := env.Rpt.StoreCopy("scene/"+filepath.Base(path), path); err != nil {
		log.Warn("Unable to store scene in report", zap.Error(err))
	}
	return s, nil
}

// newSession registers configured and scene styles and applies scene
// decorations, previous lists first.
func newSession(ctx context.Context, env *state.LocalEnv, s *scene.Scene, log *zap.Logger) (*session, error) {
	metrics, err := engine.NewMetrics(env.Metrics)
	if err != nil {
		return nil, err
	}
	ss := &session{
		scene:   s,
		doc:     s.Document(),
		surface: overlay.NewDocument(log),
	}
	ss.engine = engine.New(ss.doc, ss.surface,
		engine.WithLogger(log),
		engine.WithConfig(env.Cfg.Engine),
		engine.WithMetrics(metrics))

	if err := ss.engine.RegisterStyles(engine.StylesFromConfig(env.Cfg.Styles)); err != nil {
		return nil, fmt.Errorf("unable to register configured styles: %w", err)
	}
	if len(s.Styles) > 0 {
		if err := ss.engine.RegisterStyles(engine.StylesFromConfig(s.Styles)); err != nil {
			return nil, fmt.Errorf("unable to register scene styles: %w", err)
		}
	}
	ss.engine.Resize(s.Viewport.Width, s.Viewport.Height)

	for _, group := range s.Groups() {
		if list, ok := s.Previous[group]; ok {
			if _, err := ss.engine.ApplyDecorations(ctx, group, list); err != nil {
				return nil, err
			}
		}
		if _, err := ss.engine.ApplyDecorations(ctx, group, s.Decorations[group]); err != nil {
			return nil, err
		}
	}
	log.Debug("Scene applied", zap.String("state", ss.engine.String()))
	return ss, nil
}

// output writes data to destination or to STDOUT when destination is empty.
func output(env *state.LocalEnv, dest, name string, data []byte, log *zap.Logger) error {
	env.Rpt.StoreData("output/"+name, data)

	if len(dest) == 0 {
		_, err := os.Stdout.Write(data)
		return err
	}
	if _, err := os.Stat(dest); err == nil && !env.Overwrite {
		return fmt.Errorf("destination %q already exists", dest)
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return fmt.Errorf("unable to write %q: %w", dest, err)
	}
	log.Info("Output written", zap.String("file", dest))
	return nil
}

// configured is a guard for actions which need initialized environment.
func configured(ctx context.Context, cmd *cli.Command, name string) (*state.LocalEnv, *zap.Logger, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	env := state.EnvFromContext(ctx)
	if env.Cfg == nil {
		cfg, err := config.LoadConfiguration("")
		if err != nil {
			return nil, nil, err
		}
		env.Cfg = cfg
	}
	if env.Log == nil {
		env.Log = zap.NewNop()
	}
	env.Overwrite = cmd.Bool("overwrite")
	return env, env.Log.Named(name), nil
}
