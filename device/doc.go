// Package device provides the minimal device-library objects that log
// through [go.jacobcolvin.com/devlog/log]: named [Object]s and the
// [Status] of an operation.
//
// Each object carries an [log.Adapter] bound to itself, so records are
// prefixed with the object's identity as it is when the record is emitted.
// A [Status] identifies itself by its textual form, which changes once it
// finishes.
package device
