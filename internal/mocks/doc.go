// Package mocks holds hand-written fakes for the generation, auth and store
// interfaces. Each fake records its calls and lets a test swap behavior
// through exported fields, e.g.
//
//	gen := &mocks.MockRoundGenerator{Err: generation.ErrNoRounds}
//	tokens := &mocks.MockJWTService{Token: "t"}
package mocks
