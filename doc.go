// Package evergreen is a gesture-driven holiday particle scene for
// [Ebitengine].
//
// A cloud of particles forms a Christmas tree and morphs into one of three
// text silhouettes depending on how many fingers the viewer holds up. The
// distance between thumb and index tip scatters the tree, and the hand's
// horizontal offset spins the scene. Gifts, baubles and photo cards orbit
// the tree; when the tree is fully scattered the photos gather into a
// revolving carousel that faces the camera.
//
// # Quick start
//
// Build a [Scene], feed it hand landmarks and step it once per frame:
//
//	scene, err := evergreen.NewScene(evergreen.DefaultConfig(), nil)
//	if err != nil {
//		return err
//	}
//	smp := evergreen.NewSampler(src, logger)
//	go smp.Run(ctx)
//	scene.AttachSampler(smp)
//
//	// each frame
//	scene.Update(1.0 / 60)
//
// The render package draws a scene with Ebitengine and wraps it in a
// window with camera controls, photo drag and drop and a keyboard stand-in
// for the hand:
//
//	game, err := render.NewGame(scene, render.RunConfig{Title: "Evergreen"})
//	if err != nil {
//		return err
//	}
//	return render.Run(game)
//
// # Input
//
// Landmarks arrive through a [LandmarkSource]. [ChannelSource] bridges
// callback-style detectors, [ScriptSource] replays JSON gesture scripts and
// the source package streams frames over WebSocket. A [Sampler] pulls from
// the source on its own goroutine and queues results in arrival order; the
// scene classifies every queued result at the start of a frame, so a slow
// detector never stalls the frame loop and no sample is skipped.
//
// # Drive state
//
// Every sample is reduced to a [DriveState] by the [Classifier]. All
// animators read that state; nothing else reaches them. Transitions (hand
// found, hand lost, mode changed) can be observed through an [EventSink];
// the ecs package forwards them into a [Donburi] world.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package evergreen
