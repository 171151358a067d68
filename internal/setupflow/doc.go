// Package setupflow drives the interactive configuration of an LG NetCast
// TV as an explicit state machine.
//
// The machine moves entry -> authorize -> created, with a pick_device
// branch when no host is entered and an abort terminal state. State is a
// plain value passed into and returned by each submit call; the host
// collaborator (the wizard, or any other frontend) only has to render the
// returned Outcome:
//
//	state, outcome := flow.Start()
//	state, outcome = flow.SubmitEntry(ctx, state, "")    // -> pick_device
//	state, outcome = flow.SubmitPick(ctx, state, id)     // -> authorize
//	state, outcome = flow.SubmitAuthorize(ctx, state, pin)
//
// Outcomes are one of: show a form (with per-field error codes), finalize
// a created entry, or abort with a reason code. Nothing in this package
// persists anything or renders anything - that is the collaborator's job.
package setupflow
