// Package uvc registers v4l2 video devices with the driver manager.
// Importing it on platforms without v4l2 is a no-op.
package uvc

// LabelSeparator is used to separate labels for a driver that
// is found from multiple locations on a host.
const LabelSeparator = ";"
