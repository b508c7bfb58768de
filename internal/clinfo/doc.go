// Package clinfo discovers OpenCL platforms and devices and captures their
// capabilities as an immutable Document.
//
// All driver access goes through the Layer interface. Builds tagged "gpu"
// link against libOpenCL and use the native layer; other builds get a stub
// that reports ErrNotBuilt. MockLayer provides an in-memory platform layer
// for tests and for replaying saved documents.
//
// Enumeration is read-only: it issues capability queries only and never
// creates contexts, queues or buffers.
package clinfo
