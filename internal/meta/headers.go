package meta

const (
	HeaderDatabase      = "x-ydb-database"
	HeaderTraceID       = "x-ydb-trace-id"
	HeaderRouteToLeader = "x-ydb-route-to-leader"
	HeaderCreatorRole   = "x-ydb-creator-role"
	HeaderSessionLabel  = "x-ydb-session-label"
)
