// Package orientation contains the orientation vocabulary shared by the
// controller and every platform adapter.
//
// A Class is the coarse portrait/landscape/unknown bucket. Classify maps a
// platform orientation type string ("portrait-primary", "landscape-secondary")
// onto it, and ClassifyTilt infers the physical class from a TiltSample.
package orientation
