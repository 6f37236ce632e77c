// Package bmi088 decodes raw register bytes from the BMI088 IMU that shares
// the telemetry dump transport with the GNSS receiver stream.
package bmi088

import "math"

// FIFOSize is the sensor's FIFO capacity in bytes.
const FIFOSize = 1024

// Combine merges the MSB/LSB register pair into a signed 16-bit sample.
func Combine(msb, lsb uint8) int16 {
	return int16(uint16(msb)<<8 | uint16(lsb))
}

// FIFOReadCount returns the number of bytes buffered in the sensor FIFO.
// The counter is 14 bits wide; the top two bits of the high register are
// reserved and masked off.
func FIFOReadCount(fifoLength0, fifoLength1 uint8) uint16 {
	masked := fifoLength1 & 0x3F // fifo_byte_counter[13:8]
	return uint16(masked)<<8 | uint16(fifoLength0)
}

// Temperature converts the raw temperature register pair to degrees
// Celsius. The sensor reports an 11-bit two's-complement value at
// 0.125 degC/LSB with a 23 degC offset.
func Temperature(tempMSB, tempLSB uint8) float32 {
	tempUint11 := uint16(tempMSB)*8 + uint16(tempLSB)/32

	var tempInt11 int16
	if tempUint11 > 1023 {
		tempInt11 = int16(tempUint11) - 2048
	} else {
		tempInt11 = int16(tempUint11)
	}

	return float32(tempInt11)*0.125 + 23.0
}

// ProcessAccel flips the Y and Z accelerometer axes into a right-handed
// coordinate frame. math.MinInt16 has no negation in int16 and saturates
// to math.MaxInt16.
func ProcessAccel(accelYRaw, accelZRaw int16) (accelY, accelZ int16) {
	accelY = negate(accelYRaw)
	accelZ = negate(accelZRaw)
	return accelY, accelZ
}

// ProcessGyro flips the Y and Z gyroscope axes and rejects the sensor's
// all-MinInt16 invalid-data marker. ok is false when the sample must be
// discarded.
func ProcessGyro(gyroX, gyroY, gyroZ int16) (x, y, z int16, ok bool) {
	if gyroX == math.MinInt16 && gyroY == math.MinInt16 && gyroZ == math.MinInt16 {
		return 0, 0, 0, false
	}
	return gyroX, negate(gyroY), negate(gyroZ), true
}

func negate(v int16) int16 {
	if v == math.MinInt16 {
		return math.MaxInt16
	}
	return -v
}
