// Package signature defines the structured record an email signature is
// composed from, and the reducer-style operations that edit it.
//
// A record always has between one and MaxPositions position slots. Slots may
// be blank while the user is typing; blank slots are skipped when rendering.
//
//	d := signature.Empty()
//	d, _ = d.SetField(signature.FieldFullName, "Ana Pérez")
//	d, _ = d.SetPosition(0, "Académica")
//	d, _ = d.AddPosition()
//
// Every operation returns a new Data value and leaves the receiver untouched,
// so a record handed to the composer cannot change while it is rendered.
package signature
