// Package cli provides the interactive storefront client.
//
// The REPL lets a user sign in, browse the product list, open chat rooms with
// sellers and read the notifications pushed to them. Chat messages and
// notifications that arrive over the realtime connection are printed as soon
// as they are received.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
