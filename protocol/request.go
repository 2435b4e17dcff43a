package protocol

import (
	"encoding/json"
)

const DefaultOp = "route"

// RouteRequest is the line-JSON request body a client writes to the
// routing server and the engine reads off the bus. Unknown fields are
// ignored.
type RouteRequest struct {
	Msisdn string `json:"msisdn"`
	Op     string `json:"op,omitempty"`
}

// ParseRouteRequest parses one request line with a real JSON parser.
// A missing op defaults to "route". A missing msisdn is left empty for
// the engine to answer NOT_FOUND.
func ParseRouteRequest(line []byte) (*RouteRequest, error) {
	req := new(RouteRequest)
	if err := json.Unmarshal(line, req); err != nil {
		return nil, err
	}
	if req.Op == "" {
		req.Op = DefaultOp
	}
	return req, nil
}
