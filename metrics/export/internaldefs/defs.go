package internaldefs

import (
	authgate "github.com/MrEthical07/authgate"
)

// CounterDef defines a public type used by authgate APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   authgate.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by authgate APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   authgate.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the gateway.
var CounterDefs = []CounterDef{
	{ID: authgate.MetricFlowInitiated, Name: "authgate_flow_initiated_total", Help: "Started authorization-code flows."},
	{ID: authgate.MetricFlowRejected, Name: "authgate_flow_rejected_total", Help: "Rejected authorization-code flows."},
	{ID: authgate.MetricFlowCompleted, Name: "authgate_flow_completed_total", Help: "Completed authorization-code flows."},
	{ID: authgate.MetricUserCreated, Name: "authgate_user_created_total", Help: "Users created via provider sign-in."},
	{ID: authgate.MetricUserLinked, Name: "authgate_user_linked_total", Help: "Existing users linked to a provider identity."},
	{ID: authgate.MetricAuthSuccess, Name: "authgate_auth_success_total", Help: "Successful session token verifications."},
	{ID: authgate.MetricAuthExpired, Name: "authgate_auth_expired_total", Help: "Session tokens rejected as expired."},
	{ID: authgate.MetricAuthInvalid, Name: "authgate_auth_invalid_total", Help: "Session tokens rejected as invalid."},
	{ID: authgate.MetricRoleCacheHit, Name: "authgate_role_cache_hit_total", Help: "Role resolutions served from the cache."},
	{ID: authgate.MetricRoleCacheMiss, Name: "authgate_role_cache_miss_total", Help: "Role resolutions fetched from the user store."},
	{ID: authgate.MetricRoleForbidden, Name: "authgate_role_forbidden_total", Help: "Requests denied by the role-set check."},
	{ID: authgate.MetricRoleLookupFailure, Name: "authgate_role_lookup_failure_total", Help: "Failed authoritative role lookups."},
	{ID: authgate.MetricRoleCacheInvalidated, Name: "authgate_role_cache_invalidated_total", Help: "Role cache invalidations after role mutations."},
}

// HistogramDefs is an exported constant or variable used by the gateway.
var HistogramDefs = []HistogramDef{
	{ID: authgate.MetricAuthorizeLatency, Name: "authgate_authorize_latency_seconds", Help: "Authorize latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the gateway.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the gateway.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
