// Copyright 2025 The Telecom Routing Server Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package alrstore

const (
	RouteGroupEast  = "ROUTE_GROUP_EAST"
	RouteGroupSouth = "ROUTE_GROUP_SOUTH"
	RouteGroupIntl  = "ROUTE_GROUP_INTL"
)

// RoutePolicy derives the downstream trunk set from the record's
// region. Unknown regions route international.
func RoutePolicy(rec *Record) string {
	switch rec.Region {
	case "US-EAST":
		return RouteGroupEast
	case "US-SOUTH":
		return RouteGroupSouth
	default:
		return RouteGroupIntl
	}
}
