// Command hapticfeedback builds the shared library loaded by host
// applications:
//
//	go build -buildmode=c-shared -o HapticHandFeedback.dll ./cmd/hapticfeedback
//
// The exported functions are thin wrappers over hostapi.Default().
package main

/*
#include <stdint.h>

typedef struct {
	uint8_t Hand;
	uint8_t Location;
	float   NormalizedStrength;
	float   Duration;
} HandFeedbackConfig;
*/
import "C"

import (
	"github.com/banshee-data/haptics/internal/hostapi"
)

//export HapticGetSingletonInstance
func HapticGetSingletonInstance() C.uintptr_t {
	return C.uintptr_t(hostapi.Default().Instance())
}

//export HapticInitialize
func HapticInitialize(instance C.uintptr_t, leftHandComPort, rightHandComPort C.uint16_t) {
	hostapi.Default().Initialize(hostapi.Handle(instance), uint16(leftHandComPort), uint16(rightHandComPort))
}

//export HapticClose
func HapticClose(instance C.uintptr_t) {
	hostapi.Default().Close(hostapi.Handle(instance))
}

//export HapticApplyFeedback
func HapticApplyFeedback(instance C.uintptr_t, config C.HandFeedbackConfig) {
	hostapi.Default().ApplyFeedback(hostapi.Handle(instance), hostapi.FeedbackConfig{
		Hand:               uint8(config.Hand),
		Location:           uint8(config.Location),
		NormalizedStrength: float32(config.NormalizedStrength),
		Duration:           float32(config.Duration),
	})
}

//export HapticShutdown
func HapticShutdown() {
	hostapi.Default().Shutdown()
}

func main() {}
