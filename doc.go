// Package verdant is a scroll-driven storytelling engine for [Ebitengine].
//
// It provides two engines and the stage that hosts them:
//
//   - a particle field: a fixed pool of drifting, fading, optionally
//     pointer-attracted points rendered into a [Surface] once per frame;
//   - a scroll choreographer: elements registered as pinned horizontal
//     sections, parallax layers, progress indicators or fade-reveal panels
//     are transformed synchronously from the vertical scroll offset.
//
// # Quick start
//
//	stage := verdant.NewStage(1280, 720)
//	stage.SetFlow(true)
//
//	intro := verdant.NewBox("intro", 0, 0, 1280, 720)
//	stage.Root().AddChild(intro)
//
//	journey := verdant.NewBox("journey", 0, 0, 1280, 720)
//	journey.ScrollWidth = 5120
//	stage.Root().AddChild(journey)
//	stage.Register(journey, verdant.KindPinPan, verdant.RegisterOptions{})
//
//	if _, err := stage.AddField(verdant.AmbientConfig(), nil); err != nil {
//		log.Print(err) // decorative; carry on without it
//	}
//	stage.Relayout()
//
//	verdant.Run(stage, verdant.RunConfig{Title: "journey", Width: 1280, Height: 720})
//
// # Elements
//
// An [Element] is a laid-out box. Left and Top are relative to the parent;
// the root's children sit in document space. Layout fields belong to the
// page. TranslateX, TranslateY, Alpha and Fill belong to the choreographer
// and tweens. Children inherit position, translation and alpha.
//
// Disposing an element unregisters every registration bound to it, and tears
// down any particle field anchored to it.
//
// # Choreography
//
// Each pinned section has one trigger range [start, end] in scroll offsets,
// where end - start is the section's content width minus the viewport width.
// Progress p = clamp((offset - start) / (end - start), 0, 1) is computed once
// per section per scroll event; pin, parallax and progress registrations
// anchored to the section all read that same p:
//
//	pin:      TranslateX = -p × travel
//	parallax: TranslateX = -p × width × depth
//	progress: Fill = p
//
// A section whose content fits the viewport has p = 1. On viewports at or
// below the narrow breakpoint (768 by default) pin and parallax are disabled;
// progress and fade-reveal still run.
//
// # Particle fields
//
// A [ParticleField] owns its pool and a [FrameHandle] on a [FrameClock]. Each
// tick it advances every particle (integrate, attract, age, wrap or respawn)
// and then renders. [ParticleField.Teardown] cancels the pending frame and
// releases the pool; nothing runs after it returns.
//
// Randomness comes from a [RandSource]; [NewRand] gives a seeded,
// reproducible one for tests.
//
// # Debugging
//
// [Stage.SetDebugMode] prints per-frame timings and misuse warnings to
// stderr. [Stage.InjectScroll], [Stage.InjectDrag] and [LoadTestScript]
// drive a stage without a human; [Stage.Screenshot] writes PNGs.
//
// [Ebitengine]: https://ebitengine.org
package verdant
