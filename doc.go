// Package sessionpool - session pools for YDB table service.
/*
Sessions are server-side resources which are expensive to create and expire
silently after idle periods. Pools of this package create sessions ahead,
hand them out to callers and take them back, refresh them before expiration
and detect sessions which were checked out for too long.

Three pool disciplines are provided: Fixed (fixed count of sessions created
at bind), Elastic (creates sessions on demand, keeps up to target size idle)
and Pinging (keeps sessions alive by caller-driven RefreshStale).
*/
package sessionpool
