package probe

import "NavTrace/internal/model"

// rtcmPreamble is the first byte of every RTCM3 message frame.
const rtcmPreamble = 0xD3

// ClassifyMode tags a captured payload with the dump mode it belongs to.
// Correction streams (RTCM3) are recognized by their fixed preamble;
// everything else is part of the full receiver conversation.
func ClassifyMode(payload []byte) model.CommMode {
	if len(payload) > 0 && payload[0] == rtcmPreamble {
		return model.CommModeRTCM
	}
	return model.CommModeFull
}
