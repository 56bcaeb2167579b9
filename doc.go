// Package tessera is a retained-mode component framework for tile-based 2D
// games on [Ebitengine].
//
// Tessera keeps a tree of components and redraws only the ones that changed.
// A redrawn component first erases the rectangle it covered last frame by
// copying its parent's background back over it, then draws itself at its new
// position. Sprite grids add animation frames and cell-aligned collision,
// which is what a falling-block game needs.
//
// # Quick start
//
//	cfg := tessera.DefaultRunConfig()
//	inst, err := tessera.NewInstance(cfg, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	form := tessera.NewForm("main", tessera.Vec(0, 0), background)
//	inst.SetFocus(form)
//	if err := inst.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// [Instance] implements [ebiten.Game], so it can also be passed to
// [ebiten.RunGame] directly.
//
// # Components
//
// Every widget embeds [Component]. [Form] is a component with children, and
// its image is the background they are drawn over. [SurfaceGridComponent]
// draws a [SurfaceGrid] of equally sized sprites instead of a single image.
// [Label] and [TextBox] render text. Moving a component, changing its image
// or calling [Component.Update] marks it dirty. [Instance.Update] draws the
// focused form each frame, and within one frame the form is drawn before its
// children, in the order they were added.
//
// # Events and timers
//
// Key events go to the focused form, which forwards them to its focus sink
// (see [Form.SetFocus]) or raises its own [Handlers]. Timers registered with
// [Form.AddTimer] tick once per frame while the form has focus.
//
// # Extras
//
// Screen transitions ([NewFadeEffect], [NewFlashEffect],
// [NewOverlayEffect]), position tweens (via [gween]), WAV sound and music
// (via [beep]), TOML run configuration, resource trunks with TexturePacker
// atlases, and a [Donburi] bridge in tessera/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [beep]: https://github.com/gopxl/beep
// [Donburi]: https://github.com/yohamta/donburi
package tessera
