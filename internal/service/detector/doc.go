// Package detector decides when a tilted device should raise a
// "rotation attempted while locked" alert.
//
// The Detector is armed on creation. The first sample that disagrees with
// the logical orientation raises an alert and latches it; further
// disagreeing samples stay silent until one agreeing sample re-arms it.
package detector
