package gpu

import "fmt"

// Debug enables verbose resource logging
var Debug = false

// Log prints a debug line when Debug is set
func Log(format string, args ...interface{}) {
	if Debug {
		fmt.Printf("[gpu] "+format+"\n", args...)
	}
}
