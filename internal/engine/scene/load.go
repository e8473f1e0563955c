package scene

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/midgard-ocean/internal/config"
	"github.com/Faultbox/midgard-ocean/internal/engine/skybox"
	"github.com/Faultbox/midgard-ocean/internal/engine/texture"
	"github.com/Faultbox/midgard-ocean/internal/engine/water"
)

// Loader reads asset files by slash-separated path.
type Loader interface {
	Load(name string) ([]byte, error)
}

type bundle struct {
	water water.Sources
	sky   skybox.Sources
}

type loadResult struct {
	bundle *bundle
	err    error
}

// readBundle reads shaders and decodes textures concurrently. Each task
// writes only its own field, so the bundle is complete once Wait returns.
func readBundle(ctx context.Context, assets Loader, cfg *config.Config) (*bundle, error) {
	b := &bundle{}
	g, ctx := errgroup.WithContext(ctx)

	read := func(kind, name string) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := assets.Load(name)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", kind, name, err)
		}
		return data, nil
	}
	source := func(dst *string, name string) {
		g.Go(func() error {
			data, err := read("shader", name)
			if err != nil {
				return err
			}
			*dst = string(data)
			return nil
		})
	}
	picture := func(dst *image.Image, name string) {
		g.Go(func() error {
			data, err := read("texture", name)
			if err != nil {
				return err
			}
			img, err := texture.Decode(name, data)
			if err != nil {
				return fmt.Errorf("texture %s: %w", name, err)
			}
			*dst = img
			return nil
		})
	}

	a, wc := cfg.Assets, cfg.Water
	source(&b.water.Vertex, a.WaterVertex)
	source(&b.water.Fragment, a.WaterFragment)
	source(&b.water.SolidFragment, a.SolidFragment)
	source(&b.sky.Vertex, a.SkyboxVertex)
	source(&b.sky.Fragment, a.SkyboxFragment)
	picture(&b.water.Normal, wc.NormalTexture)
	picture(&b.water.Environment, wc.EnvironmentTexture)
	picture(&b.water.Foam, wc.FoamTexture)
	picture(&b.sky.Texture, cfg.Skybox.Texture)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return b, nil
}
