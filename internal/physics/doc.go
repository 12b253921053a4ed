// Package physics provides a small rigid-body world for the duck-drop scene.
//
// The world simulates dynamic spheres falling onto static planes:
//
//   - [Body]: rigid body with mass, pose, velocity and a force accumulator
//   - [Sphere], [Plane]: collision shapes
//   - [Material], [ContactMaterial]: friction and restitution between tags
//   - [World]: fixed-step world; collision detection and the contact
//     solve run in github.com/akmonengine/feather
//
// # Stepping
//
// [World.Step] turns accumulated forces into velocity, runs the substeps
// (integrate, detect, position solve, velocity solve with the pair's contact
// material) and then clears every force accumulator, so a force applied
// between two steps acts for exactly one step:
//
//	w := physics.NewWorld()
//	w.Gravity = mgl64.Vec3{0, -9.82, 0}
//	w.Add(body)
//	w.Step(1.0 / 60)
package physics
