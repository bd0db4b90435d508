// Package mqttfeed connects the orientation-lock binaries to an MQTT broker.
//
// Subscribe routes tilt samples (JSON {"beta":..,"gamma":..}) and physical
// orientation reports (plain text such as "landscape-primary") into a
// platform.Sink. Publisher sends JSON documents such as alerts and samples.
package mqttfeed
