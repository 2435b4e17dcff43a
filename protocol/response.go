package protocol

import (
	"encoding/json"
)

const (
	StatusOK       = "OK"
	StatusNotFound = "NOT_FOUND"
	StatusBusy     = "BUSY"
	StatusError    = "ERROR"
	StatusTimeout  = "TIMEOUT"
)

const (
	ReasonNotInAlr        = "subscriber_not_in_alr"
	ReasonOverload        = "overload"
	ReasonMqFull          = "mq_full"
	ReasonNoResponse      = "flx_no_response"
	ReasonMalformedJSON   = "malformed_json"
	ReasonRequestTooLarge = "request_too_large"
	ReasonServerShutdown  = "server_shutdown"
)

// RouteResponse is the engine's answer for one routed request.
type RouteResponse struct {
	CorrID       uint64 `json:"corr_id"`
	Op           string `json:"op"`
	Msisdn       string `json:"msisdn"`
	Status       string `json:"status"`
	Imsi         string `json:"imsi,omitempty"`
	ServingMsc   string `json:"serving_msc,omitempty"`
	ServingVlr   string `json:"serving_vlr,omitempty"`
	RouteGroup   string `json:"route_group,omitempty"`
	Reason       string `json:"reason,omitempty"`
	FlxLatencyMs uint64 `json:"flx_latency_ms"`
}

// serverError is a response the routing server originates itself, with
// no engine round trip behind it.
type serverError struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// ServerErrorLine builds a BUSY/ERROR/TIMEOUT response body. The caller
// appends the trailing newline when writing to the connection.
func ServerErrorLine(status, reason string) []byte {
	b, err := json.Marshal(&serverError{Status: status, Reason: reason})
	if err != nil {
		// two string fields cannot fail to marshal
		panic(err)
	}
	return b
}
