package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// storage
	RouteStorage     = RouteApiV1 + "/storage"
	RouteBuckets     = RouteStorage + "/buckets"
	RouteFiles       = RouteStorage + "/files"
	RouteFile        = RouteFiles + "/:file_id"
	RouteDownload    = RouteFile + "/download"
	RouteRedirect    = RouteFile + "/redirect"
	RouteAccess      = RouteFile + "/access"
	RouteAccessUser  = RouteAccess + "/:user_id"
	RoutePermissions = RouteFile + "/permissions"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
